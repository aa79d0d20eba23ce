// Package errors provides structured error types for the boardflow engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI, and debug server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - TRANSIENT_*: Recoverable I/O failures (persistence writes)
//   - INTERNAL_*: Unexpected internal errors
//
// A few codes name conditions the engine deliberately downgrades rather
// than surfaces: CONSTRAINT_VIOLATION (duplicate edge insert, treated as
// success), DANGLING_REFERENCE (edge endpoint gone, pruned silently),
// GEOMETRY_UNAVAILABLE (chrome element not mounted, defaults used) and
// ANIMATION_INTERRUPTED (reflow abandoned on mode switch or unmount).
// The engine attaches them to its debug logs so these paths stay
// classifiable; they never propagate to users.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePanelNotFound, "panel %s", id)
//	if errors.Is(err, errors.ErrCodePanelNotFound) {
//	    // Handle the missing panel
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransientIO, origErr, "persist edge %s", id)
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
	ErrCodeInvalidEdge   Code = "INVALID_EDGE"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePanelNotFound   Code = "PANEL_NOT_FOUND"
	ErrCodeEdgeNotFound    Code = "EDGE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Persistence boundary errors
	ErrCodeTransientIO         Code = "TRANSIENT_IO"
	ErrCodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	ErrCodeDanglingReference   Code = "DANGLING_REFERENCE"

	// Degraded-but-functional conditions
	ErrCodeGeometryUnavailable  Code = "GEOMETRY_UNAVAILABLE"
	ErrCodeAnimationInterrupted Code = "ANIMATION_INTERRUPTED"

	// Internal errors
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
