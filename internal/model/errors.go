package model

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationError carries the message shown to the client. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
