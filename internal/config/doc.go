// Package config loads and validates the task tracker's settings.
//
// Values come from built-in defaults, an optional YAML file and
// TASKTRACKER_-prefixed environment variables, later sources winning.
// The result is validated with go-playground/validator before any
// component sees it.
package config
