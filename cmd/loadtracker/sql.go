package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/spf13/cobra"
)

type sqlOptions struct {
	dialect    string
	table      string
	columns    string
	insert     string
	update     string
	upsert     string
	onConflict string
	delete     bool
	filters    []sqlFilter
	order      []string
	limit      int
	offset     int
}

type sqlFilter struct {
	operator   database.Operator
	expression string
}

var filterFlags = []struct {
	name     string
	operator database.Operator
}{
	{"eq", database.OperatorEqual},
	{"neq", database.OperatorNotEqual},
	{"gt", database.OperatorGreaterThan},
	{"gte", database.OperatorGreaterThanOrEqual},
	{"lt", database.OperatorLessThan},
	{"lte", database.OperatorLessThanOrEqual},
	{"like", database.OperatorLike},
	{"ilike", database.OperatorILike},
	{"is", database.OperatorIs},
	{"isnot", database.OperatorIsNot},
	{"in", database.OperatorIn},
}

// filterFlag appends to a slice shared by every filter flag, so filters are
// chained in the order they appear on the command line.
type filterFlag struct {
	operator database.Operator
	filters  *[]sqlFilter
}

func (flag filterFlag) String() string {
	return ""
}

func (flag filterFlag) Set(value string) error {
	*flag.filters = append(*flag.filters, sqlFilter{
		operator:   flag.operator,
		expression: value,
	})

	return nil
}

func (flag filterFlag) Type() string {
	if flag.operator == database.OperatorIn {
		return "column=a,b"
	}

	return "column=value"
}

func newSQLCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &sqlOptions{}

	cmd := &cobra.Command{
		Use:   "sql <table>",
		Short: "Print the statement a query builder chain compiles to",
		Long: `Compile a query builder chain described by flags and print the SQL and
its arguments without running it. Filter flags take column=value, where value
is read as JSON when possible (42, true, null, "text") and as text otherwise.`,
		Example: `  loadtracker sql loads --select "id, reference" --eq status=pending --order id.desc --limit 10
  loadtracker sql customers --dialect mysql --upsert '{"id": 7, "name": "ACME"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.table = args[0]

			if opts.dialect == "" {
				opts.dialect = rootOpts.config.AppDriverDatabase
			}

			statement, statementArgs, err := compileSQL(*opts)
			if err != nil {
				return err
			}

			argsJSON, err := json.Marshal(statementArgs)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), statement)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(argsJSON))

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.dialect, "dialect", "", "postgres, mysql or sqlite (defaults to the configured database)")
	cmd.Flags().StringVar(&opts.columns, "select", "", "columns to select or return")
	cmd.Flags().StringVar(&opts.insert, "insert", "", "insert the JSON object")
	cmd.Flags().StringVar(&opts.update, "update", "", "update with the JSON object")
	cmd.Flags().StringVar(&opts.upsert, "upsert", "", "upsert the JSON object")
	cmd.Flags().StringVar(&opts.onConflict, "on-conflict", "", "conflict target for --upsert")
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "delete the matching rows")
	cmd.Flags().StringArrayVar(&opts.order, "order", nil, "column or column.desc")
	cmd.Flags().IntVar(&opts.limit, "limit", -1, "maximum rows")
	cmd.Flags().IntVar(&opts.offset, "offset", -1, "rows to skip")

	for _, filter := range filterFlags {
		cmd.Flags().Var(
			filterFlag{operator: filter.operator, filters: &opts.filters},
			filter.name,
			fmt.Sprintf("filter with %s, repeatable", filter.operator),
		)
	}

	return cmd
}

func dialectDriver(dialect string) (database.Driver, error) {
	switch dialect {
	case "postgres":
		return database.NewDriverPostgres(database.DriverPostgresConfig{}), nil
	case "mysql":
		return database.NewDriverMySQL(database.DriverMySQLConfig{}), nil
	case "sqlite":
		return database.NewDriverSQLite(""), nil
	}

	return nil, fmt.Errorf("invalid dialect: %s", dialect)
}

// compileSQL builds the chain described by opts against a builder with no
// querier and compiles it.
func compileSQL(opts sqlOptions) (string, []any, error) {
	driver, err := dialectDriver(opts.dialect)
	if err != nil {
		return "", nil, err
	}

	builder := database.NewQueryBuilder(nil, driver, opts.table)

	writes := 0
	for _, payload := range []struct {
		raw   string
		apply func(data map[string]any)
	}{
		{opts.insert, func(data map[string]any) { builder.Insert(data) }},
		{opts.update, func(data map[string]any) { builder.Update(data) }},
		{opts.upsert, func(data map[string]any) {
			upsertOptions := []database.UpsertOption{}
			if opts.onConflict != "" {
				upsertOptions = append(upsertOptions, database.WithOnConflict(opts.onConflict))
			}
			builder.Upsert(data, upsertOptions...)
		}},
	} {
		if payload.raw == "" {
			continue
		}

		data := map[string]any{}
		if err := json.Unmarshal([]byte(payload.raw), &data); err != nil {
			return "", nil, fmt.Errorf("payload: %w", err)
		}

		payload.apply(data)
		writes++
	}

	if opts.delete {
		builder.Delete()
		writes++
	}

	if writes > 1 {
		return "", nil, fmt.Errorf("use only one of --insert, --update, --upsert and --delete")
	}

	if opts.columns != "" {
		builder.Select(opts.columns)
	}

	for _, filter := range opts.filters {
		column, raw, found := strings.Cut(filter.expression, "=")
		if !found {
			return "", nil, fmt.Errorf("filter %q: expected column=value", filter.expression)
		}

		if filter.operator == database.OperatorIn {
			values := []any{}
			for _, value := range strings.Split(raw, ",") {
				values = append(values, parseValue(value))
			}
			builder.In(column, values)

			continue
		}

		applyFilter(builder, filter.operator, column, parseValue(raw))
	}

	for _, order := range opts.order {
		column, direction, _ := strings.Cut(order, ".")
		builder.Order(column, database.Ascending(direction != "desc"))
	}

	if opts.limit >= 0 {
		builder.Limit(opts.limit)
	}

	if opts.offset >= 0 {
		builder.Offset(opts.offset)
	}

	return builder.ToSQL()
}

func applyFilter(builder *database.QueryBuilder, operator database.Operator, column string, value any) {
	switch operator {
	case database.OperatorEqual:
		builder.Eq(column, value)
	case database.OperatorNotEqual:
		builder.Neq(column, value)
	case database.OperatorGreaterThan:
		builder.Gt(column, value)
	case database.OperatorGreaterThanOrEqual:
		builder.Gte(column, value)
	case database.OperatorLessThan:
		builder.Lt(column, value)
	case database.OperatorLessThanOrEqual:
		builder.Lte(column, value)
	case database.OperatorLike:
		builder.Like(column, fmt.Sprint(value))
	case database.OperatorILike:
		builder.ILike(column, fmt.Sprint(value))
	case database.OperatorIs:
		builder.Is(column, value)
	case database.OperatorIsNot:
		builder.IsNot(column, value)
	}
}

func parseValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}

	return raw
}
