// Package apperr defines the error kinds shared by the stores, the services
// and the HTTP layer. Callers match kinds with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a sentinel identifying a class of failure.
type Kind struct{ name string }

func (k *Kind) Error() string { return k.name }

var (
	ErrValidation         = &Kind{"validation failed"}
	ErrNotFound           = &Kind{"not found"}
	ErrConflict           = &Kind{"conflict"}
	ErrInvalidTransition  = &Kind{"invalid status transition"}
	ErrUnauthenticated    = &Kind{"unauthenticated"}
	ErrForbidden          = &Kind{"forbidden"}
	ErrStorageUnavailable = &Kind{"storage unavailable"}
)

// Error is a failure of a given kind with a caller-facing message and an
// optional underlying cause.
type Error struct {
	Kind    *Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(*Kind)
	return ok && k == e.Kind
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind *Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }

func InvalidTransition(format string, args ...any) error {
	return newf(ErrInvalidTransition, format, args...)
}

func Unauthenticated(format string, args ...any) error {
	return newf(ErrUnauthenticated, format, args...)
}

func Forbidden(format string, args ...any) error { return newf(ErrForbidden, format, args...) }

// StorageUnavailable wraps a backend fault. A nil cause returns nil.
func StorageUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStorageUnavailable, Message: "storage unavailable", Err: err}
}

// KindOf returns the kind carried by err, or nil for unclassified errors.
func KindOf(err error) *Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k *Kind
	if errors.As(err, &k) {
		return k
	}
	return nil
}

// Message returns the caller-facing message of err. Storage faults and
// unclassified errors never leak their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == ErrStorageUnavailable {
			return "Storage unavailable, try again later"
		}
		return e.Message
	}
	return "Internal server error"
}
