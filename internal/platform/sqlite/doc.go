// Package sqlite implements the store interfaces on an embedded SQLite
// database through gorm. It backs single-node deployments and local
// development; the schema is created with AutoMigrate on open.
package sqlite
