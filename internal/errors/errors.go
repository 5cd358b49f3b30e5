// Package errors provides coded errors shared by the client, the renderers
// and the command line.
//
// Codes are machine readable and stable. The message is what the user sees:
// the browser shows [UserMessage] inline, the CLI prints the full error.
//
//	err := errors.New(errors.ErrCodeInvalidParams, "from must have %d entries", dim)
//	if errors.Is(err, errors.ErrCodeInvalidParams) {
//	    // reject at the input boundary
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Transport and protocol
	ErrCodeNetwork           Code = "NETWORK_ERROR"
	ErrCodeTimeout           Code = "TIMEOUT"
	ErrCodeBadResponse       Code = "BAD_RESPONSE"
	ErrCodeUnsupportedSchema Code = "UNSUPPORTED_SCHEMA"
	ErrCodeShapeMismatch     Code = "SHAPE_MISMATCH"

	// Rendering faults. These never corrupt state; callers log them.
	ErrCodeEmptyInput      Code = "EMPTY_INPUT"
	ErrCodeDegenerateRange Code = "DEGENERATE_RANGE"
	ErrCodeNonFiniteValue  Code = "NON_FINITE_VALUE"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsWarning reports whether err is a rendering fault that leaves the
// surface in a valid state. Such errors are logged, not surfaced.
func IsWarning(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyInput, ErrCodeDegenerateRange, ErrCodeNonFiniteValue:
		return true
	}
	return false
}

// RetryableError marks a transient failure that may succeed on retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
