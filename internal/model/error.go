package model

import (
	"github.com/pkg/errors"
)

// Error is reported when no response could be obtained at all: name
// resolution, connecting, TLS, a malformed request, or the host refusing the
// request. It is never used for HTTP error statuses.
type Error struct {
	Description string
	cause       error
}

func (e *Error) Error() string { return e.Description }

func (e *Error) Unwrap() error { return e.cause }

// Cause is here for github.com/pkg/errors.Cause.
func (e *Error) Cause() error { return e.cause }

// NewError wraps err into an *Error. A nil err yields nil. If err is or
// wraps an *Error, that *Error is returned.
func NewError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Description: err.Error(), cause: err}
}

// Errorf creates an *Error without an underlying cause.
func Errorf(format string, args ...interface{}) error {
	return &Error{Description: errors.Errorf(format, args...).Error()}
}
