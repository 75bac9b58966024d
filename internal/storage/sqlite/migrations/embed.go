package migrations

import "embed"

// FS contains embedded SQLite migrations for food rescue storage.
//
//go:embed *.sql
var FS embed.FS
