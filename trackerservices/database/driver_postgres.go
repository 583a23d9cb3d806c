package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func NewDriverPostgres(config DriverPostgresConfig) Driver {
	return &driverPostgres{
		config: config,
	}
}

type DriverPostgresConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
}

type driverPostgres struct {
	config DriverPostgresConfig
}

func (driver *driverPostgres) Open() (*sql.DB, error) {
	sslMode := driver.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return sql.Open(
		"postgres",
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			driver.config.Host,
			driver.config.Port,
			driver.config.User,
			driver.config.Pass,
			driver.config.Name,
			sslMode,
		),
	)
}

func (driver *driverPostgres) Name() string {
	return "postgres"
}

func (driver *driverPostgres) generateILike(column string) (string, string) {
	return column + " ILIKE ", ""
}

func (driver *driverPostgres) generateUpsert(conflictColumns []string, columns []string) string {
	return generateUpsertOnConflict(conflictColumns, columns)
}

func (driver *driverPostgres) supportsReturning() bool {
	return true
}

func (driver *driverPostgres) usesNumberedParameters() bool {
	return true
}
