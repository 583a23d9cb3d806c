package fleet

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id {{id}},
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		billing_address TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS drivers (
		id {{id}},
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL,
		current_load_id BIGINT,
		current_lat DOUBLE PRECISION,
		current_lng DOUBLE PRECISION,
		location_updated_at {{timestamp}},
		created_at {{timestamp}} NOT NULL DEFAULT {{now}}
	)`,
	`CREATE TABLE IF NOT EXISTS loads (
		id {{id}},
		reference VARCHAR(64) NOT NULL UNIQUE,
		customer_id BIGINT NOT NULL,
		driver_id BIGINT,
		status VARCHAR(32) NOT NULL,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		stops TEXT,
		rate DOUBLE PRECISION NOT NULL,
		pickup_at {{timestamp}} NOT NULL,
		delivered_at {{timestamp}},
		created_at {{timestamp}} NOT NULL DEFAULT {{now}}
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id {{id}},
		load_id BIGINT NOT NULL,
		invoice_number VARCHAR(64) NOT NULL UNIQUE,
		amount DOUBLE PRECISION NOT NULL,
		status VARCHAR(32) NOT NULL,
		due_date {{timestamp}} NOT NULL,
		paid_at {{timestamp}},
		created_at {{timestamp}} NOT NULL DEFAULT {{now}}
	)`,
	`CREATE TABLE IF NOT EXISTS load_documents (
		id {{id}},
		load_id BIGINT NOT NULL,
		kind VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		storage_key VARCHAR(512) NOT NULL UNIQUE,
		created_at {{timestamp}} NOT NULL DEFAULT {{now}}
	)`,
}

// Schema renders the table definitions for the named database driver.
func Schema(driverName string) ([]string, error) {
	var replacer *strings.Replacer

	switch driverName {
	case "sqlite":
		replacer = strings.NewReplacer(
			"{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{timestamp}}", "TIMESTAMP",
			"{{now}}", "CURRENT_TIMESTAMP",
		)
	case "postgres":
		replacer = strings.NewReplacer(
			"{{id}}", "BIGSERIAL PRIMARY KEY",
			"{{timestamp}}", "TIMESTAMPTZ",
			"{{now}}", "CURRENT_TIMESTAMP",
		)
	case "mysql":
		replacer = strings.NewReplacer(
			"{{id}}", "BIGINT AUTO_INCREMENT PRIMARY KEY",
			"{{timestamp}}", "DATETIME(6)",
			"{{now}}", "CURRENT_TIMESTAMP(6)",
		)
	default:
		return nil, fmt.Errorf("no schema for database driver %q", driverName)
	}

	statements := []string{}
	for _, statement := range schema {
		statements = append(statements, replacer.Replace(statement))
	}

	return statements, nil
}

// Migrate creates any missing fleet tables.
func Migrate(ctx context.Context, databaseService *database.Service) error {
	statements, err := Schema(databaseService.Driver().Name())
	if err != nil {
		return err
	}

	for _, statement := range statements {
		if _, err := databaseService.Exec(ctx, statement); err != nil {
			return fmt.Errorf("migrate fleet schema: %w", err)
		}
	}

	return nil
}
