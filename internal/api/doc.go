// Package api is the HTTP transport of the task tracker. It decodes and
// validates requests, calls the service layer on behalf of the
// authenticated user, and maps service errors to status codes and safe
// messages. Resources owned by other users are reported as not found.
package api
