// Package migrations embeds the SQL schema for the Postgres snapshot backend.
package migrations

import "embed"

// FS holds the migration files in golang-migrate naming order.
//
//go:embed *.sql
var FS embed.FS
