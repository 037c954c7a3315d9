package models

import "errors"

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = errors.New("product not found")

// ValidationError reports input that does not satisfy the product's shape.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError wrapping err, which may be nil.
func NewValidationError(message string, err error) *ValidationError {
	return &ValidationError{Message: message, Err: err}
}
