// Package result provides the tagged success/failure value returned by
// command and query handlers instead of raw errors for expected outcomes.
package result

import apperrors "chathub/pkg/errors"

// Result holds exactly one of a value or an expected failure.
type Result[T any] struct {
	value T
	err   *apperrors.Error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Fail[T any](err *apperrors.Error) Result[T] {
	if err == nil {
		err = apperrors.Internal("UNKNOWN_ERROR", "failure constructed without an error")
	}
	return Result[T]{err: err}
}

// Failed reports whether the result carries a failure.
func (r Result[T]) Failed() bool {
	return r.err != nil
}

// Value returns the success value. It is the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *apperrors.Error {
	return r.err
}
