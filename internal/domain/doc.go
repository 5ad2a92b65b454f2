// Package domain contains the core business entities of the task tracker:
// users, categories and tasks, together with the reminder state carried by
// each task. It is independent of any storage engine or delivery mechanism.
package domain
