// Package migrations embeds the SQL schema files applied at startup.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed schema/**/*.sql
var schemaFS embed.FS

// Schema returns the schema files rooted at the schema directory, so
// callers walk them without the embed prefix.
func Schema() fs.FS {
	sub, err := fs.Sub(schemaFS, "schema")
	if err != nil {
		// The embed path is fixed at compile time.
		panic(err)
	}
	return sub
}
