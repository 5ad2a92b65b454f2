// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, using database/sql with the pgx
// driver. The schema is managed by goose migrations embedded in the binary.
package postgres
