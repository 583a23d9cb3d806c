package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database/internal/utils"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FetchManyInto runs the builder and decodes every row into T using its db
// struct tags.
func FetchManyInto[T any](ctx context.Context, builder *QueryBuilder) ([]T, error) {
	rows, err := builder.FetchMany(ctx)
	if err != nil {
		return nil, err
	}

	return Decode[T](rows)
}

// FetchOneInto runs the builder and decodes the first row into T. It returns
// nil without an error when nothing matched.
func FetchOneInto[T any](ctx context.Context, builder *QueryBuilder) (*T, error) {
	row, err := builder.FetchOne(ctx)
	if err != nil {
		return nil, err
	}

	if row == nil {
		return nil, nil
	}

	target := new(T)
	if err := DecodeRow(row, target); err != nil {
		return nil, err
	}

	return target, nil
}

func Decode[T any](rows []Row) ([]T, error) {
	targets := []T{}
	for _, row := range rows {
		target := new(T)
		if err := DecodeRow(row, target); err != nil {
			return nil, err
		}

		targets = append(targets, *target)
	}

	return targets, nil
}

// DecodeRow copies the columns of row into the tagged fields of target, which
// must be a pointer to a struct. Columns without a matching field are ignored.
func DecodeRow(row Row, target any) error {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		return ErrUnsupportedType{Type: fmt.Sprintf("%T", target)}
	}

	return utils.LoopOverStructFields(value, func(tag utils.DBTag, fieldDefinition reflect.StructField, fieldValue reflect.Value) error {
		raw, found := row[tag.Column]
		if !found {
			return nil
		}

		if err := assignValue(fieldValue, raw); err != nil {
			return fmt.Errorf("column %s: %w", tag.Column, err)
		}

		return nil
	})
}

func assignValue(field reflect.Value, raw any) error {
	if raw == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.Kind() == reflect.Pointer {
		target := reflect.New(field.Type().Elem())
		if err := assignValue(target.Elem(), raw); err != nil {
			return err
		}

		field.Set(target)

		return nil
	}

	if scanner, ok := field.Addr().Interface().(sql.Scanner); ok {
		return scanner.Scan(raw)
	}

	if field.Type() == reflect.TypeFor[time.Time]() {
		parsed, err := toTime(raw)
		if err != nil {
			return err
		}

		field.Set(reflect.ValueOf(parsed))

		return nil
	}

	if shouldBeJSON(field.Type()) {
		switch typed := raw.(type) {
		case string:
			return json.Unmarshal([]byte(typed), field.Addr().Interface())
		case []byte:
			return json.Unmarshal(typed, field.Addr().Interface())
		}
	}

	switch field.Kind() {
	case reflect.Bool:
		parsed, err := toBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(parsed)

		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := toInt(raw)
		if err != nil {
			return err
		}

		field.SetInt(parsed)

		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := toInt(raw)
		if err != nil {
			return err
		}

		field.SetUint(uint64(parsed))

		return nil
	case reflect.Float32, reflect.Float64:
		parsed, err := toFloat(raw)
		if err != nil {
			return err
		}

		field.SetFloat(parsed)

		return nil
	case reflect.String:
		switch typed := raw.(type) {
		case string:
			field.SetString(typed)
		case []byte:
			field.SetString(string(typed))
		case time.Time:
			field.SetString(typed.Format(time.RFC3339Nano))
		default:
			field.SetString(fmt.Sprint(typed))
		}

		return nil
	}

	rawValue := reflect.ValueOf(raw)
	if rawValue.Type().ConvertibleTo(field.Type()) {
		field.Set(rawValue.Convert(field.Type()))
		return nil
	}

	return ErrUnsupportedType{Type: fmt.Sprintf("%T into %s", raw, field.Type())}
}

func toTime(raw any) (time.Time, error) {
	switch typed := raw.(type) {
	case time.Time:
		return typed, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, typed); err == nil {
				return parsed, nil
			}
		}

		return time.Time{}, fmt.Errorf("unrecognized time %q", typed)
	case int64:
		return time.Unix(typed, 0).UTC(), nil
	}

	return time.Time{}, ErrUnsupportedType{Type: fmt.Sprintf("%T into time.Time", raw)}
}

func toBool(raw any) (bool, error) {
	switch typed := raw.(type) {
	case bool:
		return typed, nil
	case int64:
		return typed != 0, nil
	case string:
		return strconv.ParseBool(typed)
	}

	return false, ErrUnsupportedType{Type: fmt.Sprintf("%T into bool", raw)}
}

func toInt(raw any) (int64, error) {
	switch typed := raw.(type) {
	case int64:
		return typed, nil
	case int32:
		return int64(typed), nil
	case int:
		return int64(typed), nil
	case uint64:
		return int64(typed), nil
	case float64:
		return int64(typed), nil
	case bool:
		if typed {
			return 1, nil
		}

		return 0, nil
	case string:
		return strconv.ParseInt(typed, 10, 64)
	}

	return 0, ErrUnsupportedType{Type: fmt.Sprintf("%T into integer", raw)}
}

func toFloat(raw any) (float64, error) {
	switch typed := raw.(type) {
	case float64:
		return typed, nil
	case float32:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case string:
		return strconv.ParseFloat(typed, 64)
	}

	return 0, ErrUnsupportedType{Type: fmt.Sprintf("%T into float", raw)}
}
