package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
)

func NewDriverMySQL(config DriverMySQLConfig) Driver {
	return &driverMySQL{
		config: config,
	}
}

type DriverMySQLConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverMySQL struct {
	config DriverMySQLConfig
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	mysqlConfig := mysql.NewConfig()
	mysqlConfig.User = driver.config.User
	mysqlConfig.Passwd = driver.config.Pass
	mysqlConfig.Net = "tcp"
	mysqlConfig.Addr = fmt.Sprintf("%s:%d", driver.config.Host, driver.config.Port)
	mysqlConfig.DBName = driver.config.Name
	mysqlConfig.ParseTime = true

	return sql.Open("mysql", mysqlConfig.FormatDSN())
}

func (driver *driverMySQL) Name() string {
	return "mysql"
}

// MySQL has no ILIKE, fold both sides instead.
func (driver *driverMySQL) generateILike(column string) (string, string) {
	return fmt.Sprintf("LOWER(%s) LIKE LOWER(", column), ")"
}

// The conflict target is implied by the table's unique keys on MySQL.
func (driver *driverMySQL) generateUpsert(conflictColumns []string, columns []string) string {
	sets := []string{}
	for _, column := range columns {
		sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", column, column))
	}

	return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
}

func (driver *driverMySQL) supportsReturning() bool {
	return false
}

func (driver *driverMySQL) usesNumberedParameters() bool {
	return false
}
