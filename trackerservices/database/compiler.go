package database

import (
	"fmt"
	"strings"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database/internal/utils"
)

// ToSQL compiles the builder without running it.
func (builder *QueryBuilder) ToSQL() (string, []any, error) {
	if builder.err != nil {
		return "", nil, builder.err
	}

	parts, err := builder.compile()
	if err != nil {
		return "", nil, err
	}

	statement, args := utils.Prepare(parts, builder.driver.usesNumberedParameters())

	return statement, args, nil
}

func (builder *QueryBuilder) compile() ([]utils.Part, error) {
	if builder.operation != OperationSelect {
		if builder.orderByClause != "" || builder.limitClause != "" || builder.offsetClause != "" {
			return nil, newValidationError(
				"operation",
				string(builder.operation),
				"order, limit and offset only apply to select",
			)
		}
	}

	switch builder.operation {
	case OperationSelect:
		return builder.compileSelect(), nil
	case OperationInsert:
		return builder.compileInsert()
	case OperationUpsert:
		return builder.compileUpsert()
	case OperationUpdate:
		return builder.compileUpdate()
	case OperationDelete:
		return builder.compileDelete(), nil
	}

	return nil, newValidationError("operation", string(builder.operation), "unknown operation")
}

func (builder *QueryBuilder) compileSelect() []utils.Part {
	parts := []utils.Part{
		utils.Text(fmt.Sprintf("SELECT %s FROM %s", builder.selectColumns, builder.table)),
	}
	parts = append(parts, builder.compileWhere()...)
	parts = append(parts, utils.Text(builder.orderByClause+builder.limitClause+builder.offsetClause))

	return parts
}

func (builder *QueryBuilder) compileInsert() ([]utils.Part, error) {
	parts, err := builder.compileValues()
	if err != nil {
		return nil, err
	}

	if builder.selectCalled {
		parts = append(parts, builder.compileReturning()...)
	}

	return parts, nil
}

func (builder *QueryBuilder) compileUpsert() ([]utils.Part, error) {
	parts, err := builder.compileValues()
	if err != nil {
		return nil, err
	}

	columns := []string{}
	for _, payload := range builder.payload {
		columns = append(columns, payload.Column)
	}

	parts = append(parts, utils.Text(builder.driver.generateUpsert(builder.conflict, columns)))
	parts = append(parts, builder.compileReturning()...)

	return parts, nil
}

func (builder *QueryBuilder) compileValues() ([]utils.Part, error) {
	if len(builder.conditions) > 0 {
		return nil, newValidationError(
			"filter",
			builder.conditions[0].Column,
			fmt.Sprintf("filters are not allowed on %s", builder.operation),
		)
	}

	if len(builder.payload) == 0 {
		return nil, ErrNoColumns
	}

	columns := []string{}
	for _, payload := range builder.payload {
		columns = append(columns, payload.Column)
	}

	parts := []utils.Part{
		utils.Text(fmt.Sprintf("INSERT INTO %s (%s) VALUES (", builder.table, strings.Join(columns, ", "))),
	}
	for i, payload := range builder.payload {
		if i > 0 {
			parts = append(parts, utils.Text(", "))
		}
		parts = append(parts, utils.Value(payload.Value))
	}
	parts = append(parts, utils.Text(")"))

	return parts, nil
}

func (builder *QueryBuilder) compileUpdate() ([]utils.Part, error) {
	if len(builder.payload) == 0 {
		return nil, ErrNoColumns
	}

	parts := []utils.Part{
		utils.Text(fmt.Sprintf("UPDATE %s SET ", builder.table)),
	}
	for i, payload := range builder.payload {
		if i > 0 {
			parts = append(parts, utils.Text(", "))
		}
		parts = append(parts, utils.Text(payload.Column+" = "), utils.Value(payload.Value))
	}
	parts = append(parts, builder.compileWhere()...)
	parts = append(parts, builder.compileReturning()...)

	return parts, nil
}

func (builder *QueryBuilder) compileDelete() []utils.Part {
	parts := []utils.Part{
		utils.Text(fmt.Sprintf("DELETE FROM %s", builder.table)),
	}
	parts = append(parts, builder.compileWhere()...)
	parts = append(parts, builder.compileReturning()...)

	return parts
}

func (builder *QueryBuilder) compileReturning() []utils.Part {
	if !builder.driver.supportsReturning() {
		return nil
	}

	return []utils.Part{
		utils.Text(" RETURNING " + builder.selectColumns),
	}
}

// compileWhere conjoins every condition in chain order.
func (builder *QueryBuilder) compileWhere() []utils.Part {
	parts := []utils.Part{}

	for i, condition := range builder.conditions {
		if i == 0 {
			parts = append(parts, utils.Text(" WHERE "))
		} else {
			parts = append(parts, utils.Text(" AND "))
		}

		switch condition.Operator {
		case OperatorIn:
			parts = append(parts,
				utils.Text(condition.Column+" IN ("),
				utils.List(condition.Values),
				utils.Text(")"),
			)
		case OperatorIs, OperatorIsNot:
			parts = append(parts, utils.Text(fmt.Sprintf(
				"%s %s %s",
				condition.Column,
				condition.Operator,
				renderIsLiteral(condition.Value),
			)))
		case OperatorILike:
			before, after := builder.driver.generateILike(condition.Column)
			parts = append(parts,
				utils.Text(before),
				utils.Value(condition.Value),
				utils.Text(after),
			)
		default:
			parts = append(parts,
				utils.Text(fmt.Sprintf("%s %s ", condition.Column, condition.Operator)),
				utils.Value(condition.Value),
			)
		}
	}

	return parts
}

func renderIsLiteral(value any) string {
	switch value {
	case true:
		return "TRUE"
	case false:
		return "FALSE"
	}

	return "NULL"
}
