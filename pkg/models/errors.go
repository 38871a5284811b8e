package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the document model, the page directory, and the
// HTTP layer. Operations referencing a stale or unknown id fail with an
// explicit not-found error instead of silently doing nothing.
var (
	ErrPageNotFound         = errors.New("page not found")
	ErrBlockNotFound        = errors.New("block not found")
	ErrPageExists           = errors.New("page already exists")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ValidationError reports a rejected input value. It aborts the operation
// before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
