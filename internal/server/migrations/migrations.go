// Package migrations embeds the goose SQL migrations that define the
// relational schema: clients, deposits, history, and the sent-email log,
// with cascade-on-delete foreign keys.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
