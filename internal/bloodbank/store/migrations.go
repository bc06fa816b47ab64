package store

import "embed"

// Migrations holds the schema applied by `bloodlink migrate`, in
// golang-migrate naming: NNN_description.up.sql with a matching .down.sql.
//
//go:embed migrations/*.sql
var Migrations embed.FS
