// Package migrations applies the SQLite schema as an ordered series of
// embedded SQL files, each run once and recorded in schema_migrations.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
