package database_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"gotest.tools/v3/assert"
)

type fleetDriver struct {
	ID     int64    `db:"id,primaryKey"`
	Name   string   `db:"name"`
	Status string   `db:"status"`
	Active bool     `db:"active"`
	Rating float64  `db:"rating"`
	Tags   []string `db:"tags"`
	Note   *string  `db:"note"`
}

const createDriversTable = `CREATE TABLE drivers (
	id BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	status VARCHAR(32) NOT NULL,
	active BOOLEAN NOT NULL,
	rating DOUBLE PRECISION NOT NULL,
	tags TEXT,
	note TEXT
)`

func testSuite(t *testing.T, driver database.Driver, configFuncs ...database.ServiceConfigFunc) {
	statements := []string{}
	configFuncs = append(configFuncs,
		database.WithLogger(slog.Default()),
		database.WithPreRunFunc(func(ctx context.Context, statement string, args []any) error {
			statements = append(statements, statement)
			return nil
		}),
	)

	service, err := database.New(driver, configFuncs...)
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = service.Close()
	})

	assert.NilError(t, service.Ping(t.Context()))

	{ // Create the table
		_, err := service.Exec(t.Context(), createDriversTable)
		assert.NilError(t, err)
	}

	{ // Blank statements never reach the database
		_, err := service.Exec(t.Context(), "  ")
		assert.ErrorIs(t, err, database.ErrBlankQuery)
	}

	note := "prefers night runs"
	seed := []fleetDriver{
		{ID: 1, Name: "Carla", Status: "available", Active: true, Rating: 4.5, Tags: []string{"hazmat"}},
		{ID: 2, Name: "Ben", Status: "available", Active: true, Rating: 3.9, Note: &note},
		{ID: 3, Name: "Abe", Status: "on_load", Active: false, Rating: 4.8},
	}

	{ // Insert
		for _, driver := range seed {
			_, err := service.From("drivers").Insert(driver).FetchMany(t.Context())
			assert.NilError(t, err)
		}
	}

	{ // Select many, ordered and limited
		drivers, err := database.FetchManyInto[fleetDriver](
			t.Context(),
			service.From("drivers").Select("id, name, status, active, rating, tags, note").Eq("status", "available").Order("name").Limit(10),
		)
		assert.NilError(t, err)
		assert.DeepEqual(t, []fleetDriver{seed[1], seed[0]}, drivers)
	}

	{ // Select one
		driver, err := database.FetchOneInto[fleetDriver](t.Context(), service.From("drivers").Eq("id", 3))
		assert.NilError(t, err)
		assert.DeepEqual(t, &seed[2], driver)
	}

	{ // Nothing matched
		rows, err := service.From("drivers").Eq("status", "retired").FetchMany(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, 0, len(rows))

		row, err := service.From("drivers").Eq("status", "retired").FetchOne(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, row == nil)

		driver, err := database.FetchOneInto[fleetDriver](t.Context(), service.From("drivers").Eq("id", 99))
		assert.NilError(t, err)
		assert.Assert(t, driver == nil)
	}

	{ // Filters
		count := func(builder *database.QueryBuilder) int {
			rows, err := builder.FetchMany(t.Context())
			assert.NilError(t, err)

			return len(rows)
		}

		assert.Equal(t, 1, count(service.From("drivers").ILike("name", "carla")))
		assert.Equal(t, 1, count(service.From("drivers").Like("name", "B%")))
		assert.Equal(t, 2, count(service.From("drivers").In("id", []int64{1, 3, 7})))
		assert.Equal(t, 2, count(service.From("drivers").Is("note", nil)))
		assert.Equal(t, 1, count(service.From("drivers").IsNot("note", nil)))
		assert.Equal(t, 2, count(service.From("drivers").Gte("rating", 4.5)))
		assert.Equal(t, 1, count(service.From("drivers").Lt("rating", 4.0)))
		assert.Equal(t, 2, count(service.From("drivers").Eq("active", true)))
		assert.Equal(t, 1, count(service.From("drivers").Neq("status", "on_load").Gt("rating", 1).Order("id").Range(1, 1).Select("id")))
	}

	{ // Update
		_, err := service.From("drivers").Update(map[string]any{"status": "on_load"}).Eq("id", 1).FetchMany(t.Context())
		assert.NilError(t, err)

		driver, err := database.FetchOneInto[fleetDriver](t.Context(), service.From("drivers").Eq("id", 1))
		assert.NilError(t, err)
		assert.Equal(t, "on_load", driver.Status)
	}

	{ // Upsert updates the existing row and inserts the new one
		_, err := service.From("drivers").Upsert(fleetDriver{ID: 2, Name: "Benjamin", Status: "off_duty", Active: true, Rating: 4.0}).FetchMany(t.Context())
		assert.NilError(t, err)

		_, err = service.From("drivers").Upsert(fleetDriver{ID: 4, Name: "Dana", Status: "available", Active: true, Rating: 5}).FetchMany(t.Context())
		assert.NilError(t, err)

		drivers, err := database.FetchManyInto[fleetDriver](t.Context(), service.From("drivers").Order("id"))
		assert.NilError(t, err)
		assert.Equal(t, 4, len(drivers))
		assert.Equal(t, "Benjamin", drivers[1].Name)
		assert.Assert(t, drivers[1].Note == nil)
		assert.Equal(t, "Dana", drivers[3].Name)
	}

	{ // Delete
		_, err := service.From("drivers").Delete().Eq("id", 4).FetchMany(t.Context())
		assert.NilError(t, err)

		rows, err := service.From("drivers").FetchMany(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, 3, len(rows))
	}

	{ // Validation failures never run a statement
		before := len(statements)
		_, err := service.From("drivers").Select("id; DROP TABLE drivers").FetchMany(t.Context())
		assert.ErrorIs(t, err, database.ErrValidation)
		assert.Equal(t, before, len(statements))
	}

	{ // Driver failures are wrapped
		_, err := service.From("missing_table").FetchMany(t.Context())
		var driverError *database.DriverError
		assert.Assert(t, err != nil)
		assert.Assert(t, errors.As(err, &driverError))
		assert.Equal(t, "SELECT * FROM missing_table", driverError.Statement)
	}
}
