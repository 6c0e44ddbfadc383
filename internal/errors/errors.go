// Package errors classifies failures of backend calls so handlers can tell an
// unreachable backend apart from a response they could not use.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeConnection indicates the backend API could not be reached.
	ErrCodeConnection ErrorCode = "connection"
	// ErrCodeTimeout indicates a backend call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeMalformed indicates a response body could not be decoded.
	ErrCodeMalformed ErrorCode = "malformed"
	// ErrCodeInternal indicates a local failure such as an unencodable request.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError carries a code and message on top of an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Connection wraps a transport failure. Deadline errors are reported as
// timeouts; IsUnreachable covers both.
func Connection(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	code := ErrCodeConnection
	if isDeadline(err) {
		code = ErrCodeTimeout
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Malformed wraps a decoding failure for a backend response body.
func Malformed(err error, message string) *AppError {
	return &AppError{Code: ErrCodeMalformed, Message: message, Cause: err}
}

// Wrap attaches code and message to err. Wrap(nil, ...) is nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func isDeadline(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// GetCode returns the code of the outermost AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsConnection reports a dial, reset or other non-deadline transport failure.
func IsConnection(err error) bool { return GetCode(err) == ErrCodeConnection }

// IsTimeout reports a backend call that ran past its deadline.
func IsTimeout(err error) bool { return GetCode(err) == ErrCodeTimeout }

// IsUnreachable reports whether the backend could not be reached at all.
func IsUnreachable(err error) bool { return IsConnection(err) || IsTimeout(err) }

// IsMalformed reports a response body that could not be decoded.
func IsMalformed(err error) bool { return GetCode(err) == ErrCodeMalformed }
