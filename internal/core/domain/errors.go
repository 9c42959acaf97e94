package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Session errors
var (
	ErrAccessDenied  = errors.New("access denied")
	ErrUserInactive  = errors.New("user account is not active")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrInvalidState  = errors.New("invalid oauth state")
	ErrUnknownRole   = errors.New("role not configured")
	ErrLockNotHeld   = errors.New("could not obtain lock")
	ErrNotConfigured = errors.New("feature not configured")
)

// ValidationError is a user-facing validation failure raised before any
// network or database call.
type ValidationError struct {
	Field   string
	Message string
	// Fields maps each failed field to its message
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidInput) match every validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError is a duplicate entry with a message fit for the user
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrDuplicateEntry) match every conflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrDuplicateEntry
}

// NewConflictError creates a conflict error
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
