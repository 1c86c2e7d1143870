// Package xerrors provides structured error types for FlowLens.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - UNREACHABLE_VERTEX / MALFORMED_DOMTREE: analysis contract violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := xerrors.New(xerrors.CodeInvalidInput, "graph has no entry block")
//	if xerrors.Is(err, xerrors.CodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := xerrors.Wrap(xerrors.CodeStore, origErr, "fetch analysis %s", id)
package xerrors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeInvalidGraph  Code = "INVALID_GRAPH"

	// Resource not found errors
	CodeNotFound         Code = "NOT_FOUND"
	CodeAnalysisNotFound Code = "NOT_FOUND_ANALYSIS"

	// Analysis contract violations
	CodeUnreachableVertex Code = "UNREACHABLE_VERTEX"
	CodeMalformedDomTree  Code = "MALFORMED_DOMTREE"

	// Infrastructure errors
	CodeStore Code = "STORE_ERROR"
	CodeCache Code = "CACHE_ERROR"

	// Internal errors
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether err carries the given error code.
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
