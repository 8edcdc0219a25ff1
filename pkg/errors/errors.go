// Package errors provides structured error handling for the engine.
// Errors carry a code so callers can tell validation failures (the
// only class that stops work early) apart from degraded-collaborator
// conditions that services recover from locally.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode represents an error code.
type ErrorCode string

const (
	// Input errors: reject before any work begins.
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Collaborator errors: recovered locally with degraded results.
	CodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	CodeCacheFailure    ErrorCode = "CACHE_FAILURE"

	// Fallback for errors raised outside this package.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is an application error with structured information.
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds metadata to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause attaches a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error.
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewValidationError creates a validation error. This is the error
// class callers surface directly to users.
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewInvalidInputError creates an invalid input error for a named
// field.
func NewInvalidInputError(field, reason string) *AppError {
	return NewAppError(
		CodeInvalidInput,
		"Invalid input",
		fmt.Sprintf("%s: %s", field, reason),
	).WithMetadata("field", field)
}

// NewUpstreamError wraps a failure from an external collaborator
// (catalog, history store). Services recover from these locally.
func NewUpstreamError(collaborator string, cause error) *AppError {
	return NewAppError(
		CodeUpstreamFailure,
		"Upstream collaborator failed",
		fmt.Sprintf("failed to query %s", collaborator),
	).WithCause(cause).WithMetadata("collaborator", collaborator)
}

// NewCacheError wraps a cache read/write failure. Always treated as a
// miss by score paths.
func NewCacheError(operation string, cause error) *AppError {
	return NewAppError(
		CodeCacheFailure,
		"Cache operation failed",
		fmt.Sprintf("failed to %s", operation),
	).WithCause(cause)
}

// Is checks whether an error carries a specific error code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace.
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}
	return builder.String()
}
