package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Store and identity adapters.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrClaimNotHeld       = errors.New("invite claim not held")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ErrorCode classifies a caller-visible failure of a callable function.
type ErrorCode string

const (
	CodeUnauthenticated  ErrorCode = "unauthenticated"
	CodePermissionDenied ErrorCode = "permission-denied"
	CodeInvalidArgument  ErrorCode = "invalid-argument"
	CodeAlreadyExists    ErrorCode = "already-exists"
	CodeNotFound         ErrorCode = "not-found"
	CodeInternal         ErrorCode = "internal"
)

// Error is a coded error surfaced to callers as a code+message pair.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewError returns an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError returns an Error with the given code and message that wraps err.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
