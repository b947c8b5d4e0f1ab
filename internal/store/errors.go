package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references a task id or diary
// date that does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports rejected input. It is recoverable at the call
// site and causes no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
