package service

import (
	"errors"
	"strings"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
)

// Error is the only error type that crosses the service boundary with a
// client-visible message.  Anything else is treated as internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Validation joins field messages into one error, or returns nil when there
// are none.
func Validation(msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	return newError(KindValidation, strings.Join(msgs, ", "))
}

func BadRequest(msg string) error   { return newError(KindBadRequest, msg) }
func NotFound(msg string) error     { return newError(KindNotFound, msg) }
func Forbidden(msg string) error    { return newError(KindForbidden, msg) }
func Unauthorized(msg string) error { return newError(KindUnauthorized, msg) }
func Conflict(msg string) error     { return newError(KindConflict, msg) }

// Internal wraps an unexpected failure.  The cause is kept for logging only.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Server Error", Err: err}
}

// KindOf reports the classification of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
