package migrations

import "embed"

// FS contains embedded SQLite migrations for shell local state.
//
//go:embed *.sql
var FS embed.FS
