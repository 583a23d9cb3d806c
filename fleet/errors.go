package fleet

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDriverUnavailable  = errors.New("driver is not available")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
)

// RequestError is a caller mistake that can be shown to the caller as is.
type RequestError struct {
	Field  string
	Reason string
}

func (err RequestError) Error() string {
	return fmt.Sprintf("%s %s", err.Field, err.Reason)
}
