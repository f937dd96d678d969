// Package migrations embeds the SQL schema migrations so they can be applied
// at startup and from tests without a filesystem checkout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
