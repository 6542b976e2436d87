package migrations

import "embed"

// FS holds the schema migrations, one directory per database driver.
//
//go:embed sqlite3/*.sql mysql/*.sql
var FS embed.FS
