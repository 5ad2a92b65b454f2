// Package service contains the application use cases of the task tracker.
// It orchestrates domain objects and the store interfaces defined in
// internal/store to register users and manage tasks, categories and
// reminders on behalf of an authenticated owner.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage engine. Errors are returned as
// sentinels or typed errors that the API layer maps to HTTP status codes:
//
//   - ErrNotFound covers both missing resources and resources owned by
//     someone else, so existence never leaks to non-owners.
//   - ValidationError (matching ErrValidation) reports bad input such as a
//     category reference the caller does not own.
package service
