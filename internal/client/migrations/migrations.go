// Package migrations embeds the SQLite schema of a client profile.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
