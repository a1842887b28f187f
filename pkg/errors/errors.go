package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed failure raised by one stage of the import.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// DriverCode is the database driver's own error code, when there is one.
	DriverCode string `json:"driver_code,omitempty"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.DriverCode != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.DriverCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so the predefined errors
// below can be used as sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeNetwork = "NETWORK_ERROR"
	CodeDecode  = "DECODE_ERROR"
	CodeSQL     = "SQL_ERROR"
	CodeConfig  = "CONFIG_ERROR"
)

// Predefined errors for each failure class.
var (
	ErrNetwork = New(CodeNetwork, "request failed")
	ErrDecode  = New(CodeDecode, "unexpected response shape")
	ErrSQL     = New(CodeSQL, "statement failed")
	ErrConfig  = New(CodeConfig, "invalid configuration")
)

// New creates a new Error instance.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Network wraps a transport failure.
func Network(err error, format string, args ...interface{}) *Error {
	return Wrap(err, CodeNetwork, fmt.Sprintf(format, args...))
}

// Decode wraps a payload that could not be understood.
func Decode(err error, format string, args ...interface{}) *Error {
	return Wrap(err, CodeDecode, fmt.Sprintf(format, args...))
}

// SQL wraps a driver-reported failure along with the driver's code.
func SQL(err error, driverCode, message string) *Error {
	return &Error{Code: CodeSQL, Message: message, DriverCode: driverCode, Err: err}
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, "INTERNAL_ERROR", "unexpected failure")
}
