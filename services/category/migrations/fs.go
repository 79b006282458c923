// Package migrations embeds the category service database schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
