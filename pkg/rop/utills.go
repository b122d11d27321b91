package rop

import (
	"context"
	"errors"
)

// GetErrors flattens an errors.Join tree one level deep.
func GetErrors(err error) []error {
	if err == nil {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// ToError collapses a result into a plain error: nil on success.
func ToError[T any](r Result[T]) error {
	if r.IsSuccess() {
		return nil
	}
	if r.err == nil {
		return errEmptyResult
	}
	return r.err
}

var errEmptyResult = errors.New("rop: empty result")
