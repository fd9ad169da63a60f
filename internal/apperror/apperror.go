// Package apperror defines the error taxonomy shared by every layer of datanest.
//
// Each AppError wraps one sentinel (ErrNotFound, ErrValidation, ...) so callers
// classify failures with errors.Is, and carries a human-readable Message that is
// safe to show to the end user. Store failures additionally keep the original
// driver error in Cause for logs.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStore        = errors.New("store error")
)

type AppError struct {
	Err     error  // sentinel used for classification
	Message string // human-readable error message
	Field   string // optional: field causing the error
	Cause   error  // optional: underlying failure, kept for diagnostics
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause so errors.Is matches either.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a unique-constraint clash, e.g. a second tag named "go".
func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Field:   field,
	}
}

// Unauthorized returns an AppError for requests without a valid API token.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// StoreFailed wraps an unexpected persistence failure. op names the operation
// ("listing snippets"); cause is the driver error and stays in the chain.
func StoreFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStore,
		Message: "store: " + op,
		Cause:   cause,
	}
}
