package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError for transport mapping.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeInvalidState     ErrorCode = "INVALID_STATE"
	CodeConflict         ErrorCode = "CONFLICT"
)

// AppError is a domain error with a machine-readable code.
type AppError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewNotAuthenticatedError reports an operation attempted without a session.
func NewNotAuthenticatedError(message string) *AppError {
	return &AppError{Code: CodeNotAuthenticated, Message: message}
}

// NewForbiddenError reports an operation on a resource the caller does not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewInvalidStateError reports an illegal status transition.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewConflictError reports a concurrent modification.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

// IsNotAuthenticated reports whether err is a missing-session error.
func IsNotAuthenticated(err error) bool { return CodeOf(err) == CodeNotAuthenticated }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsInvalidState reports whether err is an illegal-transition error.
func IsInvalidState(err error) bool { return CodeOf(err) == CodeInvalidState }
