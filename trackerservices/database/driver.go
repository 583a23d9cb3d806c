package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// Driver opens the connection pool and owns the dialect specific pieces of
// statement rendering.
type Driver interface {
	Open() (*sql.DB, error)
	Name() string
	generateILike(column string) (before string, after string)
	generateUpsert(conflictColumns []string, columns []string) string
	supportsReturning() bool
	usesNumberedParameters() bool
}

func generateUpsertOnConflict(conflictColumns []string, columns []string) string {
	sets := []string{}
	for _, column := range columns {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	return fmt.Sprintf(
		" ON CONFLICT (%s) DO UPDATE SET %s",
		strings.Join(conflictColumns, ", "),
		strings.Join(sets, ", "),
	)
}
