package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"gotest.tools/v3/assert"
)

type recordingQuerier struct {
	statements []string
	args       [][]any
	rows       []database.Row
	err        error
}

func (querier *recordingQuerier) Query(ctx context.Context, statement string, args []any) ([]database.Row, error) {
	querier.statements = append(querier.statements, statement)
	querier.args = append(querier.args, args)

	return querier.rows, querier.err
}

func postgresBuilder(querier database.Querier, table string) *database.QueryBuilder {
	return database.NewQueryBuilder(querier, database.NewDriverPostgres(database.DriverPostgresConfig{}), table)
}

func TestQueryBuilder_Select(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		build          func(builder *database.QueryBuilder) *database.QueryBuilder
		expectedSQL    string
		expectedParams []any
	}{
		"drivers available by name": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Select("id,name").Eq("status", "available").Order("name").Limit(10)
			},
			expectedSQL:    "SELECT id,name FROM drivers WHERE status = $1 ORDER BY name ASC LIMIT 10",
			expectedParams: []any{"available"},
		},
		"default projection": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder
			},
			expectedSQL:    "SELECT * FROM drivers",
			expectedParams: []any{},
		},
		"in list after equality": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Eq("a", 1).In("b", []int{2, 3, 4})
			},
			expectedSQL:    "SELECT * FROM drivers WHERE a = $1 AND b IN ($2, $3, $4)",
			expectedParams: []any{1, 2, 3, 4},
		},
		"is null binds nothing": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Is("x", nil).Eq("y", "z")
			},
			expectedSQL:    "SELECT * FROM drivers WHERE x IS NULL AND y = $1",
			expectedParams: []any{"z"},
		},
		"is not true": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.IsNot("active", true).Is("deleted", false)
			},
			expectedSQL:    "SELECT * FROM drivers WHERE active IS NOT TRUE AND deleted IS FALSE",
			expectedParams: []any{},
		},
		"comparison operators": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Neq("a", 1).Gt("b", 2).Gte("c", 3).Lt("d", 4).Lte("e", 5)
			},
			expectedSQL:    "SELECT * FROM drivers WHERE a != $1 AND b > $2 AND c >= $3 AND d < $4 AND e <= $5",
			expectedParams: []any{1, 2, 3, 4, 5},
		},
		"pattern matching": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Like("name", "Jo%").ILike("email", "%@example.com")
			},
			expectedSQL:    "SELECT * FROM drivers WHERE name LIKE $1 AND email ILIKE $2",
			expectedParams: []any{"Jo%", "%@example.com"},
		},
		"range with descending order": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Order("created_at", database.Descending()).Range(20, 29)
			},
			expectedSQL:    "SELECT * FROM drivers ORDER BY created_at DESC LIMIT 10 OFFSET 20",
			expectedParams: []any{},
		},
		"later order replaces earlier": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Order("name").Order("id", database.Ascending(false))
			},
			expectedSQL:    "SELECT * FROM drivers ORDER BY id DESC",
			expectedParams: []any{},
		},
		"plain column list": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Select("a, b, c")
			},
			expectedSQL:    "SELECT a, b, c FROM drivers",
			expectedParams: []any{},
		},
		"embedded relation wildcard": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Select("rel:table(*)")
			},
			expectedSQL:    "SELECT rel:table(*) FROM drivers",
			expectedParams: []any{},
		},
		"nil equality is null": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				var missing *int64
				return builder.Eq("driver_id", nil).Neq("current_lat", missing).Eq("status", "available")
			},
			expectedSQL:    "SELECT * FROM drivers WHERE driver_id IS NULL AND current_lat IS NOT NULL AND status = $1",
			expectedParams: []any{"available"},
		},
		"relation projection": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Select("id, customer:customers(name)").Eq("drivers.id", 7)
			},
			expectedSQL:    "SELECT id, customer:customers(name) FROM drivers WHERE drivers.id = $1",
			expectedParams: []any{7},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			statement, params, err := testCase.build(postgresBuilder(nil, "drivers")).ToSQL()
			assert.NilError(t, err)
			assert.Equal(t, testCase.expectedSQL, statement)
			assert.DeepEqual(t, testCase.expectedParams, params)
		})
	}
}

func TestQueryBuilder_Writes(t *testing.T) {
	t.Parallel()

	type load struct {
		ID        int64     `db:"id,primaryKey,autoIncrement"`
		Reference string    `db:"reference"`
		Stops     []string  `db:"stops"`
		CreatedAt time.Time `db:"created_at,readOnly"`
	}

	testCases := map[string]struct {
		build          func(builder *database.QueryBuilder) *database.QueryBuilder
		expectedSQL    string
		expectedParams []any
	}{
		"update keys before filters": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Update(map[string]any{"status": "delivered", "driver_id": 3}).Eq("id", 9).Neq("status", "cancelled")
			},
			expectedSQL:    "UPDATE loads SET driver_id = $1, status = $2 WHERE id = $3 AND status != $4 RETURNING *",
			expectedParams: []any{3, "delivered", 9, "cancelled"},
		},
		"insert without returning": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Insert(database.Row{"reference": "L-1"})
			},
			expectedSQL:    "INSERT INTO loads (reference) VALUES ($1)",
			expectedParams: []any{"L-1"},
		},
		"insert struct with returning": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Insert(load{Reference: "L-2", Stops: []string{"Dallas", "Tulsa"}}).Select("id")
			},
			expectedSQL:    "INSERT INTO loads (reference, stops) VALUES ($1, $2) RETURNING id",
			expectedParams: []any{"L-2", `["Dallas","Tulsa"]`},
		},
		"upsert composite conflict": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Upsert(map[string]any{"a": 1}, database.WithOnConflict("a, b"))
			},
			expectedSQL:    "INSERT INTO loads (a) VALUES ($1) ON CONFLICT (a, b) DO UPDATE SET a = EXCLUDED.a RETURNING *",
			expectedParams: []any{1},
		},
		"upsert default conflict": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Upsert(load{ID: 4, Reference: "L-4"}).Select("id, reference")
			},
			expectedSQL:    "INSERT INTO loads (id, reference, stops) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id, reference = EXCLUDED.reference, stops = EXCLUDED.stops RETURNING id, reference",
			expectedParams: []any{int64(4), "L-4", "null"},
		},
		"delete with filters": {
			build: func(builder *database.QueryBuilder) *database.QueryBuilder {
				return builder.Delete().In("id", []int64{1, 2}).Select("id")
			},
			expectedSQL:    "DELETE FROM loads WHERE id IN ($1, $2) RETURNING id",
			expectedParams: []any{int64(1), int64(2)},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			statement, params, err := testCase.build(postgresBuilder(nil, "loads")).ToSQL()
			assert.NilError(t, err)
			assert.Equal(t, testCase.expectedSQL, statement)
			assert.DeepEqual(t, testCase.expectedParams, params)
		})
	}
}

func TestQueryBuilder_Dialects(t *testing.T) {
	t.Parallel()

	mysql := database.NewDriverMySQL(database.DriverMySQLConfig{})
	sqlite := database.NewDriverSQLite(":memory:")

	{ // MySQL folds case for ILIKE and has no RETURNING
		statement, params, err := database.NewQueryBuilder(nil, mysql, "customers").
			ILike("name", "%acme%").
			Eq("active", true).
			ToSQL()
		assert.NilError(t, err)
		assert.Equal(t, "SELECT * FROM customers WHERE LOWER(name) LIKE LOWER(?) AND active = ?", statement)
		assert.DeepEqual(t, []any{"%acme%", true}, params)
	}

	{ // MySQL upsert
		statement, _, err := database.NewQueryBuilder(nil, mysql, "customers").
			Upsert(map[string]any{"id": 1, "name": "Acme"}).
			ToSQL()
		assert.NilError(t, err)
		assert.Equal(t, "INSERT INTO customers (id, name) VALUES (?, ?) ON DUPLICATE KEY UPDATE id = VALUES(id), name = VALUES(name)", statement)
	}

	{ // SQLite keeps RETURNING and uses LIKE for ILIKE
		statement, params, err := database.NewQueryBuilder(nil, sqlite, "customers").
			Update(map[string]any{"name": "Acme"}).
			ILike("email", "%@acme.com").
			ToSQL()
		assert.NilError(t, err)
		assert.Equal(t, "UPDATE customers SET name = ? WHERE email LIKE ? RETURNING *", statement)
		assert.DeepEqual(t, []any{"Acme", "%@acme.com"}, params)
	}
}

func TestQueryBuilder_DeterministicOrder(t *testing.T) {
	t.Parallel()

	build := func() (string, []any) {
		statement, params, err := postgresBuilder(nil, "t").Eq("a", 1).Eq("b", 2).ToSQL()
		assert.NilError(t, err)

		return statement, params
	}

	firstSQL, firstParams := build()
	secondSQL, secondParams := build()

	assert.Equal(t, firstSQL, secondSQL)
	assert.DeepEqual(t, firstParams, secondParams)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", firstSQL)
}

func TestQueryBuilder_ValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := map[string]func(builder *database.QueryBuilder) *database.QueryBuilder{
		"select injection": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Select("a; DROP TABLE users")
		},
		"select comment": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Select("a -- b")
		},
		"conflict injection": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Upsert(map[string]any{"a": 1}, database.WithOnConflict("a; DROP"))
		},
		"empty conflict segment": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Upsert(map[string]any{"a": 1}, database.WithOnConflict("a,,b"))
		},
		"filter column": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Eq("a = 1 OR 1", 1)
		},
		"order column": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Order("name; DROP")
		},
		"payload column": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Insert(map[string]any{"bad column": 1})
		},
		"empty in list": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.In("id", []int{})
		},
		"in with scalar": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.In("id", 4)
		},
		"is with string": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Is("deleted_at", "NULL")
		},
		"ordering against null": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Gt("rate", nil)
		},
		"negative limit": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Limit(-1)
		},
		"backwards range": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Range(5, 2)
		},
		"filter on insert": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Insert(map[string]any{"a": 1}).Eq("a", 1)
		},
		"limit on update": func(builder *database.QueryBuilder) *database.QueryBuilder {
			return builder.Update(map[string]any{"a": 1}).Limit(1)
		},
	}

	for name, build := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			querier := &recordingQuerier{}
			builder := build(postgresBuilder(querier, "users"))

			{ // Compiling reports the failure
				_, _, err := builder.ToSQL()
				assert.ErrorIs(t, err, database.ErrValidation)

				var validationError *database.ValidationError
				assert.Assert(t, errors.As(err, &validationError))
			}

			{ // Running reports the failure without reaching the driver
				rows, err := builder.FetchMany(t.Context())
				assert.ErrorIs(t, err, database.ErrValidation)
				assert.Assert(t, rows == nil)
				assert.Equal(t, 0, len(querier.statements))
			}
		})
	}
}

func TestQueryBuilder_FirstErrorWins(t *testing.T) {
	t.Parallel()

	builder := postgresBuilder(nil, "users").Select("a;").Eq("b c", 1)

	var validationError *database.ValidationError
	assert.Assert(t, errors.As(builder.Err(), &validationError))
	assert.Equal(t, "select list", validationError.Context)
	assert.Equal(t, "a;", validationError.Value)
}

func TestQueryBuilder_EmptyPayload(t *testing.T) {
	t.Parallel()

	_, _, err := postgresBuilder(nil, "users").Update(map[string]any{}).Eq("id", 1).ToSQL()
	assert.ErrorIs(t, err, database.ErrNoColumns)

	_, _, err = postgresBuilder(nil, "users").Insert(nil).ToSQL()
	assert.ErrorIs(t, err, database.ErrNoColumns)
}

func TestQueryBuilder_UnsupportedPayload(t *testing.T) {
	t.Parallel()

	builder := postgresBuilder(nil, "users").Insert(42)

	var unsupported database.ErrUnsupportedType
	assert.Assert(t, errors.As(builder.Err(), &unsupported))
	assert.Equal(t, "int", unsupported.Type)
}

func TestQueryBuilder_Fetch(t *testing.T) {
	t.Parallel()

	threeRows := []database.Row{{"id": int64(1)}, {"id": int64(2)}, {"id": int64(3)}}

	{ // Many returns every row
		querier := &recordingQuerier{rows: threeRows}
		rows, err := postgresBuilder(querier, "drivers").Eq("status", "available").FetchMany(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, 3, len(rows))
		assert.DeepEqual(t, []string{"SELECT * FROM drivers WHERE status = $1"}, querier.statements)
		assert.DeepEqual(t, [][]any{{"available"}}, querier.args)
	}

	{ // One returns the first row
		querier := &recordingQuerier{rows: threeRows}
		row, err := postgresBuilder(querier, "drivers").FetchOne(t.Context())
		assert.NilError(t, err)
		assert.DeepEqual(t, database.Row{"id": int64(1)}, row)
	}

	{ // Nothing matched
		querier := &recordingQuerier{}
		rows, err := postgresBuilder(querier, "drivers").FetchMany(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, rows != nil)
		assert.Equal(t, 0, len(rows))

		row, err := postgresBuilder(querier, "drivers").FetchOne(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, row == nil)
	}

	{ // Driver failures are wrapped with the statement
		failure := errors.New("connection reset")
		querier := &recordingQuerier{err: failure}
		rows, err := postgresBuilder(querier, "drivers").Eq("id", 2).FetchMany(t.Context())
		assert.ErrorIs(t, err, failure)
		assert.Assert(t, rows == nil)

		var driverError *database.DriverError
		assert.Assert(t, errors.As(err, &driverError))
		assert.Equal(t, "SELECT * FROM drivers WHERE id = $1", driverError.Statement)
		assert.DeepEqual(t, []any{2}, driverError.Args)
	}

	{ // Missing querier
		_, err := postgresBuilder(nil, "drivers").FetchMany(t.Context())
		assert.ErrorIs(t, err, database.ErrNoQuerier)
	}
}

func TestQueryBuilder_ResolvesOnce(t *testing.T) {
	t.Parallel()

	querier := &recordingQuerier{}
	builder := postgresBuilder(querier, "drivers")

	_, err := builder.FetchMany(t.Context())
	assert.NilError(t, err)

	_, err = builder.FetchOne(t.Context())
	assert.ErrorIs(t, err, database.ErrBuilderResolved)
	assert.Equal(t, 1, len(querier.statements))
}
