package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("record not found")
	ErrDataSource   = errors.New("data source error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrAdminExists  = errors.New("admin account already exists")

	ErrDataSourceUnavailable = fmt.Errorf("%w: data source unavailable", ErrDataSource)
	ErrMalformedDataSource   = fmt.Errorf("%w: malformed data source", ErrDataSource)
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AdminExistsError carries the identity of the admin that blocked setup.
type AdminExistsError struct {
	Email string
	Name  string
}

func (e *AdminExistsError) Error() string {
	return fmt.Sprintf("admin account already exists: %s", e.Email)
}

func (e *AdminExistsError) Unwrap() error { return ErrAdminExists }
