package database

import (
	sqldriver "database/sql/driver"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database/internal/utils"
)

type columnValue struct {
	Column string
	Value  any
}

// payloadFromData flattens an insert, update or upsert payload into columns.
// Map keys are sorted so the statement text is stable; struct fields keep
// their declaration order.
func payloadFromData(data any) ([]columnValue, error) {
	switch typed := data.(type) {
	case nil:
		return nil, nil
	case Row:
		return payloadFromMap(typed)
	case map[string]any:
		return payloadFromMap(typed)
	}

	value := reflect.ValueOf(data)
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil
		}

		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, ErrUnsupportedType{Type: value.Type().String()}
		}

		converted := map[string]any{}
		iterator := value.MapRange()
		for iterator.Next() {
			converted[iterator.Key().String()] = iterator.Value().Interface()
		}

		return payloadFromMap(converted)
	case reflect.Struct:
		return payloadFromStruct(value)
	}

	return nil, ErrUnsupportedType{Type: value.Type().String()}
}

func payloadFromMap(data map[string]any) ([]columnValue, error) {
	columns := []string{}
	for column := range data {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	payload := []columnValue{}
	for _, column := range columns {
		if !utils.IsColumn(column) {
			return nil, newValidationError("column", column, "not a valid identifier")
		}

		value, err := bindValue(data[column])
		if err != nil {
			return nil, err
		}

		payload = append(payload, columnValue{Column: column, Value: value})
	}

	return payload, nil
}

func payloadFromStruct(value reflect.Value) ([]columnValue, error) {
	payload := []columnValue{}

	if err := utils.LoopOverStructFields(value, func(tag utils.DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error {
		if tag.ReadOnly {
			return nil
		}

		// Let the database assign identities that were not set by the caller
		if tag.AutoIncrement && fieldValue.IsZero() {
			return nil
		}

		if !utils.IsColumn(tag.Column) {
			return newValidationError("column", tag.Column, "not a valid identifier")
		}

		bound, err := bindValue(fieldValue.Interface())
		if err != nil {
			return err
		}

		payload = append(payload, columnValue{Column: tag.Column, Value: bound})

		return nil
	}); err != nil {
		return nil, err
	}

	return payload, nil
}

// bindValue prepares a Go value for use as a statement argument. Composite
// values are stored as JSON text.
func bindValue(value any) (any, error) {
	switch value.(type) {
	case nil:
		return nil, nil
	case sqldriver.Valuer, time.Time, []byte:
		return value, nil
	}

	reflectValue := reflect.ValueOf(value)
	if reflectValue.Kind() == reflect.Pointer {
		if reflectValue.IsNil() {
			return nil, nil
		}

		return bindValue(reflectValue.Elem().Interface())
	}

	if !shouldBeJSON(reflectValue.Type()) {
		return value, nil
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return string(jsonBytes), nil
}

func shouldBeJSON(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Map:
		return true
	case reflect.Struct:
		return t != reflect.TypeFor[time.Time]()
	}

	return false
}
