// Package apperror defines the error type the HTTP layer turns into an error envelope.
package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches the underlying cause, which is logged but never sent to the client.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func New(statusCode int, message string, details ...string) *Error {
	if message == "" {
		message = "Something went wrong"
	}
	return &Error{
		StatusCode: statusCode,
		Message:    message,
		Errors:     details,
	}
}

func BadRequest(message string, details ...string) *Error {
	return New(http.StatusBadRequest, message, details...)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// From returns the *Error in err's chain, or a generic 500 wrapping err.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(http.StatusText(http.StatusInternalServerError)).Wrap(err)
}
