package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func NewDriverSQLite(path string) Driver {
	return &driverSQLite{
		Path: path,
	}
}

type driverSQLite struct {
	Path string
}

func (driver *driverSQLite) Open() (*sql.DB, error) {
	return sql.Open(
		"sqlite3",
		fmt.Sprintf("file:%s?cache=shared&_foreign_keys=on", driver.Path),
	)
}

func (driver *driverSQLite) Name() string {
	return "sqlite"
}

// LIKE is already case insensitive for ASCII in SQLite.
func (driver *driverSQLite) generateILike(column string) (string, string) {
	return column + " LIKE ", ""
}

func (driver *driverSQLite) generateUpsert(conflictColumns []string, columns []string) string {
	return generateUpsertOnConflict(conflictColumns, columns)
}

func (driver *driverSQLite) supportsReturning() bool {
	return true
}

func (driver *driverSQLite) usesNumberedParameters() bool {
	return false
}
