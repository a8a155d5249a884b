// Package apperr defines the coded errors returned by callable operations.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code surfaced to clients.
type Code string

const (
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeForbidden        Code = "FORBIDDEN"
	CodeInvalidWorkspace Code = "INVALID_WORKSPACE"
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeRateLimited      Code = "RATE_LIMITED"
	CodeInternal         Code = "INTERNAL"
)

// Error carries a code and a human-readable message across layers.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func InvalidWorkspace(message string) *Error {
	return New(CodeInvalidWorkspace, message)
}

func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// From maps any error onto an *Error. Unrecognized errors become a generic
// INTERNAL error so storage or platform details never leak to callers.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal error")
}

// HasCode reports whether err is an *Error carrying the given code.
func HasCode(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
