// Package migrations contains the database migration files.
// Each migration file uses init() to call migration.Register(); the package
// is imported by cmd/freshmandi so every migration is registered at CLI
// startup.
package migrations
