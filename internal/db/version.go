package db

import (
	"io/fs"

	"github.com/persistorai/graphboard/internal/db/migrations"
)

// SchemaVersion returns the number of PostgreSQL migration files, which
// equals the current schema version. Both dialects are kept in lockstep.
func SchemaVersion() int {
	entries, err := fs.ReadDir(migrations.Postgres(), ".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() {
			count++
		}
	}

	return count
}
