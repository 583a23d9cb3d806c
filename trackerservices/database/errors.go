package database

import (
	"errors"
	"fmt"
)

var (
	ErrBlankQuery      = errors.New("blank query")
	ErrBuilderResolved = errors.New("query builder already resolved")
	ErrNoColumns       = errors.New("no columns to write")
	ErrValidation      = errors.New("invalid query")
	ErrNoQuerier       = errors.New("query builder has no querier")
)

// ValidationError reports a query that was built wrong by the caller, such as
// a select list or conflict target outside the allowed shape. It is never the
// result of a database round trip.
type ValidationError struct {
	Context string
	Value   string
	Reason  string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", err.Context, err.Value, err.Reason)
}

func (err *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(context string, value string, reason string) *ValidationError {
	return &ValidationError{
		Context: context,
		Value:   value,
		Reason:  reason,
	}
}

// DriverError wraps a failure returned by the database for a compiled
// statement.
type DriverError struct {
	Statement string
	Args      []any
	Err       error
}

func (err *DriverError) Error() string {
	return err.Err.Error()
}

func (err *DriverError) Unwrap() error {
	return err.Err
}

type ErrUnsupportedType struct {
	Type string
}

func (err ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported type: %s", err.Type)
}
