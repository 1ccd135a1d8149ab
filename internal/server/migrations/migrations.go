// Package migrations embeds the goose migrations for the documents table.
// The SQL is kept portable between PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
