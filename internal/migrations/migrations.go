package migrations

import "embed"

// FS holds the goose SQL migrations for the MySQL backend.
//
//go:embed *.sql
var FS embed.FS
