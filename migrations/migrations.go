// Package migrations embeds the SQL schema for each supported database.
package migrations

import "embed"

// FS holds sqlite/, postgres/ and mysql/ migration files
//
//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
