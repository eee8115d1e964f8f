// Package migrations embeds the schema of the postgres backed store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
