package database

import (
	"context"
	"database/sql"
	"strings"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Querier runs one parameterized statement and returns every row it produced.
type Querier interface {
	Query(ctx context.Context, statement string, args []any) ([]Row, error)
}

type Service struct {
	driver            Driver
	standardLibraryDB *sql.DB
	preRunFuncs       []func(ctx context.Context, statement string, args []any) error
	postRunFuncs      []func(ctx context.Context) error
}

func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	db, err := driver.Open()
	if err != nil {
		return nil, err
	}

	service := &Service{
		driver:            driver,
		standardLibraryDB: db,
		preRunFuncs:       []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs:      []func(ctx context.Context) error{},
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, err
		}
	}

	return service, nil
}

// From starts a new query against table. Every call returns an independent
// builder.
func (service *Service) From(table string) *QueryBuilder {
	return NewQueryBuilder(service, service.driver, table)
}

func (service *Service) Driver() Driver {
	return service.driver
}

func (service *Service) Ping(ctx context.Context) error {
	return service.standardLibraryDB.PingContext(ctx)
}

func (service *Service) Close() error {
	return service.standardLibraryDB.Close()
}

func (service *Service) Query(ctx context.Context, statement string, args []any) ([]Row, error) {
	if err := service.runPreRunFuncs(ctx, statement, args); err != nil {
		return nil, err
	}

	rows, err := service.standardLibraryDB.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		scanFields := make([]any, len(columns))
		for i := range values {
			scanFields[i] = &values[i]
		}

		if err := rows.Scan(scanFields...); err != nil {
			return nil, err
		}

		row := Row{}
		for i, column := range columns {
			// Drivers hand back text as []byte, and the slice is only valid until the next Scan.
			if raw, ok := values[i].([]byte); ok {
				row[column] = string(raw)
				continue
			}

			row[column] = values[i]
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := service.runPostRunFuncs(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// Exec runs a statement that returns no rows, such as DDL.
func (service *Service) Exec(ctx context.Context, statement string, args ...any) (sql.Result, error) {
	if err := service.runPreRunFuncs(ctx, statement, args); err != nil {
		return nil, err
	}

	result, err := service.standardLibraryDB.ExecContext(ctx, statement, args...)
	if err != nil {
		return nil, err
	}

	if err := service.runPostRunFuncs(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

func (service *Service) runPreRunFuncs(ctx context.Context, statement string, args []any) error {
	if strings.TrimSpace(statement) == "" {
		return ErrBlankQuery
	}

	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, statement, args); err != nil {
			return err
		}
	}

	return nil
}

func (service *Service) runPostRunFuncs(ctx context.Context) error {
	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return err
		}
	}

	return nil
}
