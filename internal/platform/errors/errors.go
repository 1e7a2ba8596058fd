// Package errors is the project error type: a code for callers and transports,
// a message for people, and an optional field and operation tag.
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error. The String form is what goes on the wire.
type ErrorCode uint8

const (
	// ErrorCodeUnknown is anything not classified below
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodeInvalidArgument is a bad flag, threshold, path or table name
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is a well formed input that breaks an invariant
	ErrorCodeValidation
	// ErrorCodeJSON is an unparsable model file or request body
	ErrorCodeJSON
	// ErrorCodeNotFound is a missing file or route target
	ErrorCodeNotFound
	// ErrorCodeUnauthorized is a missing or wrong bearer token
	ErrorCodeUnauthorized
	// ErrorCodeUnavailable is a dependency that is not ready or a read that failed
	ErrorCodeUnavailable
	// ErrorCodeDB is a database failure
	ErrorCodeDB
	// ErrorCodePanic is a recovered panic
	ErrorCodePanic
)

var codeNames = [...]string{
	ErrorCodeUnknown:         "unknown",
	ErrorCodeInvalidArgument: "invalid_argument",
	ErrorCodeValidation:      "validation",
	ErrorCodeJSON:            "json",
	ErrorCodeNotFound:        "not_found",
	ErrorCodeUnauthorized:    "unauthorized",
	ErrorCodeUnavailable:     "unavailable",
	ErrorCodeDB:              "db",
	ErrorCodePanic:           "panic",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return codeNames[ErrorCodeUnknown]
}

// MarshalText writes the code name
func (c ErrorCode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Status maps the code onto an HTTP status
func (c ErrorCode) Status() int {
	switch c {
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code, a message and the wrapped cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := e.msg
	if e.op != "" {
		s = e.op + ": " + s
	}
	if e.cause != nil {
		return s + ": " + e.cause.Error()
	}
	return s
}

// Unwrap exposes the cause to errors.Is/As
func (e *Error) Unwrap() error { return e.cause }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Message returns the message without op or cause
func (e *Error) Message() string { return e.msg }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation tag, if any
func (e *Error) Op() string { return e.op }

// New builds an error with a fixed message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf builds an error with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap attaches code and message to cause; a nil cause yields nil
func Wrap(cause error, code ErrorCode, msg string) error {
	if cause == nil {
		return nil
	}
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with a formatted message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// InvalidArgf builds an ErrorCodeInvalidArgument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// JSONErrf builds an ErrorCodeJSON error
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// Unauthorizedf builds an ErrorCodeUnauthorized error
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Unavailablef builds an ErrorCodeUnavailable error
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// WithField returns a copy of err naming the offending field; foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// WithOp returns a copy of err tagged with op; foreign errors pass through
func WithOp(err error, op string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.op = op
	return &c
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost *Error, Unknown otherwise
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err classifies as code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status; nil is 200
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return CodeOf(err).Status()
}

// Wire is the error block written into API responses
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom renders err for a response; foreign errors keep their text under Unknown
func WireFrom(err error) Wire {
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}
