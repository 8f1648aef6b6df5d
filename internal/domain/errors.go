package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks bad input. Its message is safe to show to clients,
	// unlike infrastructure errors.
	ErrValidation = errors.New("validation failed")
)

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Validation builds an input error that matches ErrValidation under errors.Is
// while keeping msg as the error text.
func Validation(msg string) error {
	return &validationError{msg: msg}
}
