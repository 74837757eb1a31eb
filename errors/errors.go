package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the error type returned by every loghub package.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for use with errors.Is. Matching is by code only.
var (
	ErrInvalidSeverity      = &Error{Code: ErrCodeInvalidSeverity}
	ErrInvalidConfigValue   = &Error{Code: ErrCodeInvalidConfigValue}
	ErrAppenderSetupFailure = &Error{Code: ErrCodeAppenderSetupFailure}
	ErrAppenderExists       = &Error{Code: ErrCodeAppenderExists}
	ErrAppenderNotFound     = &Error{Code: ErrCodeAppenderNotFound}
	ErrAppenderWriteFailure = &Error{Code: ErrCodeAppenderWriteFailure}
	ErrAppenderClosed       = &Error{Code: ErrCodeAppenderClosed}
)

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// InvalidSeverity creates an error for an unrecognized severity name.
func InvalidSeverity(value string) *Error {
	return &Error{
		Code: ErrCodeInvalidSeverity, Message: fmt.Sprintf("unrecognized severity %q", value),
		Details: map[string]any{"value": value},
	}
}

// InvalidConfigValue creates an error for a malformed value of a recognized key.
func InvalidConfigValue(key, value, expected string) *Error {
	return &Error{
		Code: ErrCodeInvalidConfigValue, Message: fmt.Sprintf("invalid value %q for %s, expected %s", value, key, expected),
		Details: map[string]any{"key": key, "value": value},
	}
}

// AppenderSetupFailure creates an error for an appender that could not be opened.
func AppenderSetupFailure(appender string, cause error) *Error {
	return &Error{
		Code: ErrCodeAppenderSetupFailure, Message: fmt.Sprintf("failed to set up appender %s", appender),
		Retryable: true, Details: map[string]any{"appender": appender}, Cause: cause,
	}
}

// AppenderExists creates an error for a duplicate appender name.
func AppenderExists(name string) *Error {
	return &Error{
		Code: ErrCodeAppenderExists, Message: fmt.Sprintf("appender %s already registered", name),
		Details: map[string]any{"appender": name},
	}
}

// AppenderNotFound creates an error for an unknown appender name.
func AppenderNotFound(name string) *Error {
	return &Error{
		Code: ErrCodeAppenderNotFound, Message: fmt.Sprintf("unrecognised appender %s", name),
		Details: map[string]any{"appender": name},
	}
}

// AppenderWriteFailure creates an error for a record that could not be written.
func AppenderWriteFailure(appender string, cause error) *Error {
	return &Error{
		Code: ErrCodeAppenderWriteFailure, Message: fmt.Sprintf("appender %s failed to write record", appender),
		Retryable: true, Details: map[string]any{"appender": appender}, Cause: cause,
	}
}

// AppenderClosed creates an error for a write after Close.
func AppenderClosed(appender string) *Error {
	return &Error{
		Code: ErrCodeAppenderClosed, Message: fmt.Sprintf("appender %s is closed", appender),
		Details: map[string]any{"appender": appender},
	}
}

// --- Helpers ---

// AsError converts an error to an *Error if possible.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable code.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}
