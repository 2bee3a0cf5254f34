package cache

import "fmt"

// SQL schemas for provider cache tables. All tables use cache_key as the
// primary key column.

// GoogleBooksCacheSchema backs Google Books volume lookups, keyed by
// volume id or normalized ISBN.
const GoogleBooksCacheSchema = `
CREATE TABLE IF NOT EXISTS googlebooks_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_googlebooks_cached_at ON googlebooks_cache(cached_at);
`

// OpenLibraryCacheSchema backs OpenLibrary work searches, keyed by ISBN.
const OpenLibraryCacheSchema = `
CREATE TABLE IF NOT EXISTS openlibrary_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_openlibrary_cached_at ON openlibrary_cache(cached_at);
`

var allSchemas = []string{
	GoogleBooksCacheSchema,
	OpenLibraryCacheSchema,
}

// validTableNames is the whitelist used to keep table names out of SQL
// injection territory, since table names cannot be bound parameters.
var validTableNames = map[string]bool{
	"googlebooks_cache": true,
	"openlibrary_cache": true,
}

// TableNames lists every provider cache table.
func TableNames() []string {
	return []string{"googlebooks_cache", "openlibrary_cache"}
}

func validateTableName(table string) error {
	if !validTableNames[table] {
		return fmt.Errorf("invalid cache table name: %s", table)
	}
	return nil
}
