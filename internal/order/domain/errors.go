package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced order does not exist in the store.
	ErrNotFound = errors.New("order not found")
	// ErrUnknownStatus means a status value outside the recognized set.
	ErrUnknownStatus = errors.New("unknown order status")
)

// ValidationError reports malformed input. It is never retried and is
// surfaced to the caller verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
