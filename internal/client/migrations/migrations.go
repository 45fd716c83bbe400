// Package migrations embeds the SQLite schema migrations for the local
// note cache. They are applied with goose on client startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
