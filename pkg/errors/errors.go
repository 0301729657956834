// Package errors defines the coded errors shared by the engine, the CLI and
// the HTTP API.
//
// Every failure a user can cause carries a [Code]: the CLI exits with
// status 2 for them and the API maps each code to an HTTP status. Codes group
// by prefix:
//   - INVALID_*: the image, configuration, plan, format or path is unusable
//   - EMPTY_LAYOUT: the frame has no room for a single nail
//   - *NOT_FOUND: a file or resource is missing
//   - NETWORK_ERROR, TIMEOUT, CANCELLED: the run did not finish
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidImage, "image has zero width")
//	err = errors.Wrap(errors.ErrCodeInvalidImage, decodeErr, "decode %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidImage) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPlan   Code = "INVALID_PLAN"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Degenerate input
	ErrCodeEmptyLayout Code = "EMPTY_LAYOUT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Execution errors
	ErrCodeCancelled   Code = "CANCELLED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* or EMPTY_* codes,
// i.e. whether the caller supplied bad input rather than hitting a failure.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidImage, ErrCodeInvalidConfig,
		ErrCodeInvalidFormat, ErrCodeInvalidPlan, ErrCodeInvalidPath,
		ErrCodeEmptyLayout:
		return true
	}
	return false
}
