package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database/internal/utils"
)

// QueryBuilder accumulates one statement against a single table. Chain
// methods mutate the builder and return it; FetchMany or FetchOne compile and
// run the statement exactly once.
//
// The first invalid chain call (a malformed select list, conflict target or
// column name) is recorded and reported by Err and by every terminal call,
// which then returns without touching the database.
type QueryBuilder struct {
	querier Querier
	driver  Driver

	table         string
	operation     Operation
	selectColumns string
	selectCalled  bool
	conditions    []condition
	orderByClause string
	limitClause   string
	offsetClause  string
	payload       []columnValue
	conflict      []string

	resolved bool
	err      error
}

func NewQueryBuilder(querier Querier, driver Driver, table string) *QueryBuilder {
	return &QueryBuilder{
		querier:       querier,
		driver:        driver,
		table:         table,
		operation:     OperationSelect,
		selectColumns: "*",
		conditions:    []condition{},
		conflict:      []string{"id"},
	}
}

// Err returns the first validation failure recorded while chaining.
func (builder *QueryBuilder) Err() error {
	return builder.err
}

func (builder *QueryBuilder) fail(err error) *QueryBuilder {
	if builder.err == nil {
		builder.err = err
	}

	return builder
}

// Select sets the projected columns, or the RETURNING list for writes. An
// empty string selects every column.
func (builder *QueryBuilder) Select(columns string) *QueryBuilder {
	if strings.TrimSpace(columns) == "" {
		columns = "*"
	}

	if !utils.IsSelectList(columns) {
		return builder.fail(newValidationError(
			"select list",
			columns,
			"only identifiers, whitespace and the characters , . * ( ) : ! are allowed",
		))
	}

	builder.selectColumns = columns
	builder.selectCalled = true

	return builder
}

func (builder *QueryBuilder) Insert(data any) *QueryBuilder {
	return builder.setPayload(OperationInsert, data)
}

func (builder *QueryBuilder) Update(data any) *QueryBuilder {
	return builder.setPayload(OperationUpdate, data)
}

func (builder *QueryBuilder) Delete() *QueryBuilder {
	builder.operation = OperationDelete
	builder.payload = nil

	return builder
}

type UpsertOption func(options *upsertOptions)

type upsertOptions struct {
	onConflict string
}

// WithOnConflict sets the comma separated conflict target of an upsert.
func WithOnConflict(columns string) UpsertOption {
	return func(options *upsertOptions) {
		options.onConflict = columns
	}
}

// Upsert inserts data, updating every written column when a row already
// matches the conflict target ("id" unless WithOnConflict is given).
func (builder *QueryBuilder) Upsert(data any, upsertOptionFuncs ...UpsertOption) *QueryBuilder {
	options := upsertOptions{
		onConflict: "id",
	}
	for _, upsertOptionFunc := range upsertOptionFuncs {
		upsertOptionFunc(&options)
	}

	conflict, invalidSegment, ok := utils.SplitIdentifiers(options.onConflict)
	if !ok {
		return builder.fail(newValidationError(
			"conflict target",
			options.onConflict,
			fmt.Sprintf("segment %q is not a plain identifier", invalidSegment),
		))
	}

	builder.conflict = conflict

	return builder.setPayload(OperationUpsert, data)
}

func (builder *QueryBuilder) setPayload(operation Operation, data any) *QueryBuilder {
	builder.operation = operation

	payload, err := payloadFromData(data)
	if err != nil {
		return builder.fail(err)
	}

	builder.payload = payload

	return builder
}

// Eq matches column against value; a nil value renders "column IS NULL".
func (builder *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorEqual, value)
}

// Neq is the negation of Eq; a nil value renders "column IS NOT NULL".
func (builder *QueryBuilder) Neq(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorNotEqual, value)
}

func (builder *QueryBuilder) Gt(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorGreaterThan, value)
}

func (builder *QueryBuilder) Gte(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorGreaterThanOrEqual, value)
}

func (builder *QueryBuilder) Lt(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorLessThan, value)
}

func (builder *QueryBuilder) Lte(column string, value any) *QueryBuilder {
	return builder.where(column, OperatorLessThanOrEqual, value)
}

func (builder *QueryBuilder) Like(column string, pattern string) *QueryBuilder {
	return builder.where(column, OperatorLike, pattern)
}

func (builder *QueryBuilder) ILike(column string, pattern string) *QueryBuilder {
	return builder.where(column, OperatorILike, pattern)
}

// Is renders "column IS NULL|TRUE|FALSE"; value must be nil or a bool.
func (builder *QueryBuilder) Is(column string, value any) *QueryBuilder {
	return builder.whereIs(column, OperatorIs, value)
}

// IsNot renders "column IS NOT NULL|TRUE|FALSE"; value must be nil or a bool.
func (builder *QueryBuilder) IsNot(column string, value any) *QueryBuilder {
	return builder.whereIs(column, OperatorIsNot, value)
}

// In matches any element of values, which must be a non-empty slice or array.
func (builder *QueryBuilder) In(column string, values any) *QueryBuilder {
	if !utils.IsColumn(column) {
		return builder.fail(newValidationError("column", column, "not a valid identifier"))
	}

	list := reflect.ValueOf(values)
	if values == nil || (list.Kind() != reflect.Slice && list.Kind() != reflect.Array) {
		return builder.fail(newValidationError("in list", fmt.Sprintf("%v", values), "must be a slice or array"))
	}

	if list.Len() == 0 {
		return builder.fail(newValidationError("in list", column, "must not be empty"))
	}

	bound := []any{}
	for i := range list.Len() {
		value, err := bindValue(list.Index(i).Interface())
		if err != nil {
			return builder.fail(err)
		}

		bound = append(bound, value)
	}

	builder.conditions = append(builder.conditions, condition{
		Column:   column,
		Operator: OperatorIn,
		Values:   bound,
	})

	return builder
}

func (builder *QueryBuilder) where(column string, operator Operator, value any) *QueryBuilder {
	if !utils.IsColumn(column) {
		return builder.fail(newValidationError("column", column, "not a valid identifier"))
	}

	bound, err := bindValue(value)
	if err != nil {
		return builder.fail(err)
	}

	// Nil compares with IS
	if bound == nil {
		switch operator {
		case OperatorEqual:
			return builder.whereIs(column, OperatorIs, nil)
		case OperatorNotEqual:
			return builder.whereIs(column, OperatorIsNot, nil)
		}

		return builder.fail(newValidationError(
			string(operator)+" value",
			"<nil>",
			"only Eq, Neq, Is and IsNot can compare with null",
		))
	}

	builder.conditions = append(builder.conditions, condition{
		Column:   column,
		Operator: operator,
		Value:    bound,
	})

	return builder
}

func (builder *QueryBuilder) whereIs(column string, operator Operator, value any) *QueryBuilder {
	if !utils.IsColumn(column) {
		return builder.fail(newValidationError("column", column, "not a valid identifier"))
	}

	switch value.(type) {
	case nil, bool:
	default:
		return builder.fail(newValidationError(
			"is value",
			fmt.Sprintf("%v", value),
			"only nil, true and false can be compared with IS",
		))
	}

	builder.conditions = append(builder.conditions, condition{
		Column:   column,
		Operator: operator,
		Value:    value,
	})

	return builder
}

type OrderOption func(options *orderOptions)

type orderOptions struct {
	ascending bool
}

func Ascending(ascending bool) OrderOption {
	return func(options *orderOptions) {
		options.ascending = ascending
	}
}

func Descending() OrderOption {
	return Ascending(false)
}

// Order sorts by column, ascending unless told otherwise. A later call
// replaces an earlier one.
func (builder *QueryBuilder) Order(column string, orderOptionFuncs ...OrderOption) *QueryBuilder {
	if !utils.IsColumn(column) {
		return builder.fail(newValidationError("order column", column, "not a valid identifier"))
	}

	options := orderOptions{
		ascending: true,
	}
	for _, orderOptionFunc := range orderOptionFuncs {
		orderOptionFunc(&options)
	}

	direction := "ASC"
	if !options.ascending {
		direction = "DESC"
	}

	builder.orderByClause = fmt.Sprintf(" ORDER BY %s %s", column, direction)

	return builder
}

func (builder *QueryBuilder) Limit(count int) *QueryBuilder {
	if count < 0 {
		return builder.fail(newValidationError("limit", fmt.Sprint(count), "must not be negative"))
	}

	builder.limitClause = fmt.Sprintf(" LIMIT %d", count)

	return builder
}

func (builder *QueryBuilder) Offset(count int) *QueryBuilder {
	if count < 0 {
		return builder.fail(newValidationError("offset", fmt.Sprint(count), "must not be negative"))
	}

	builder.offsetClause = fmt.Sprintf(" OFFSET %d", count)

	return builder
}

// Range selects the rows from and to, both inclusive and zero based.
func (builder *QueryBuilder) Range(from int, to int) *QueryBuilder {
	if from < 0 || to < from {
		return builder.fail(newValidationError("range", fmt.Sprintf("%d-%d", from, to), "must be ascending and not negative"))
	}

	return builder.Limit(to - from + 1).Offset(from)
}

// FetchMany runs the statement and returns every row. The slice is empty,
// never nil, when nothing matched.
func (builder *QueryBuilder) FetchMany(ctx context.Context) ([]Row, error) {
	return builder.execute(ctx)
}

// FetchOne runs the statement and returns its first row, or nil without an
// error when nothing matched.
func (builder *QueryBuilder) FetchOne(ctx context.Context) (Row, error) {
	rows, err := builder.execute(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0], nil
}

func (builder *QueryBuilder) execute(ctx context.Context) ([]Row, error) {
	if builder.resolved {
		return nil, ErrBuilderResolved
	}
	builder.resolved = true

	statement, args, err := builder.ToSQL()
	if err != nil {
		return nil, err
	}

	if builder.querier == nil {
		return nil, &DriverError{Statement: statement, Args: args, Err: ErrNoQuerier}
	}

	rows, err := builder.querier.Query(ctx, statement, args)
	if err != nil {
		return nil, &DriverError{Statement: statement, Args: args, Err: err}
	}

	if rows == nil {
		rows = []Row{}
	}

	return rows, nil
}
