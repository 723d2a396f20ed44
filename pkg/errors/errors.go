// Package errors carries the error contract shared by handlers, behaviors
// and the HTTP boundary. Expected business failures are represented as
// *Error values with a machine code and a category; infrastructure errors
// are wrapped with %w and classified where they cross the boundary.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Category classifies an expected failure mode.
type Category int

const (
	CategoryNone Category = iota
	CategoryFailure
	CategoryValidation
	CategoryNotFound
	CategoryConflict
	CategoryUnauthorized
	CategoryForbidden
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryFailure:
		return "failure"
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	case CategoryConflict:
		return "conflict"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryForbidden:
		return "forbidden"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is an expected failure with a machine code and a category.
type Error struct {
	Code     string
	Message  string
	Category Category
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(category Category, code, message string) *Error {
	return &Error{Code: code, Message: message, Category: category}
}

func Validation(code, message string) *Error {
	return New(CategoryValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(CategoryNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(CategoryConflict, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(CategoryUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return New(CategoryForbidden, code, message)
}

func Internal(code, message string) *Error {
	return New(CategoryInternal, code, message)
}

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// Wrap adds context to err while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// AsError extracts a *Error from err's chain, if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
