// Package shared holds request decoding, JSON responses and context keys
// used by both the api package and its middleware.
package shared
