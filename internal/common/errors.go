// Package common defines the error taxonomy shared by the TaskFlow server
// layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Service-level errors.
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")

	// Token errors. An expired token is also an invalid one.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// PublicError carries a message that is safe to return to API callers.
// Kind is one of the sentinel errors above and is what errors.Is matches.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *PublicError) Unwrap() error {
	return e.Kind
}

// NewPublicError returns a PublicError of the given kind.
func NewPublicError(kind error, message string) *PublicError {
	return &PublicError{Kind: kind, Message: message}
}

// PublicMessage returns the caller-safe message of err, or fallback when err
// carries none.
func PublicMessage(err error, fallback string) string {
	var pe *PublicError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return fallback
}
