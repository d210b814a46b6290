package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks mutations targeting an unknown slug. Reads report
	// missing posts as nil, not as an error.
	ErrNotFound = errors.New("not found")

	// ErrSlugExists marks a slug collision on create or rename.
	ErrSlugExists = errors.New("slug already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the admin-visible reason for a rejected write.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
