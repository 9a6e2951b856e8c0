package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by repositories, services and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	ErrDuplicateSlug        = fmt.Errorf("%w: slug already in use", ErrConflict)
	ErrDuplicateTranslation = fmt.Errorf("%w: translation already exists for this language", ErrConflict)
	ErrDuplicateEmail       = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrInvalidCredentials   = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
)

// ValidationError lists every rule a payload broke. It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []string
}

// NewValidationError returns a ValidationError carrying the given messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Fields: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
