// Package store defines the persistence contracts the rest of the task
// tracker depends on. Storage engines live under internal/platform and
// implement these interfaces; services and the reminder scheduler only ever
// see the interfaces.
package store
