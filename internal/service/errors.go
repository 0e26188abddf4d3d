package service

import (
	"errors"
)

var (
	// ErrExpired is returned when a known alias is past its expiry
	// instant. The record itself stays in the store.
	ErrExpired = errors.New("short link has expired")

	// ErrInternal covers unexpected failures, e.g. an exhausted
	// generate-and-check loop.
	ErrInternal = errors.New("internal error")
)

// ValidationError reports malformed or missing client input. The reason
// is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
