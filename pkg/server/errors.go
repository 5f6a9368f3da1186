package server

import "fmt"

type ErrorCode uint

const (
	ErrUnknown ErrorCode = iota
	ErrNotFound
	ErrBadParamInput
	ErrInternalServerError
)

// Error carries a user-facing code alongside the wrapped cause so handlers
// can map service failures to http statuses.
type Error struct {
	orig error
	msg  string
	code ErrorCode
}

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		orig: orig,
		code: code,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}
