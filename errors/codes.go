package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidSeverity indicates a severity name that could not be parsed.
	ErrCodeInvalidSeverity ErrorCode = "INVALID_SEVERITY"
	// ErrCodeInvalidConfigValue indicates a malformed value for a recognized key.
	ErrCodeInvalidConfigValue ErrorCode = "INVALID_CONFIG_VALUE"
	// ErrCodeAppenderSetupFailure indicates an appender could not be opened.
	ErrCodeAppenderSetupFailure ErrorCode = "APPENDER_SETUP_FAILURE"
)

// Appender registry errors
const (
	// ErrCodeAppenderExists indicates an appender name is already registered.
	ErrCodeAppenderExists ErrorCode = "APPENDER_EXISTS"
	// ErrCodeAppenderNotFound indicates no appender is registered under a name.
	ErrCodeAppenderNotFound ErrorCode = "APPENDER_NOT_FOUND"
)

// Emission errors
const (
	// ErrCodeAppenderWriteFailure indicates an I/O failure while writing a record.
	ErrCodeAppenderWriteFailure ErrorCode = "APPENDER_WRITE_FAILURE"
	// ErrCodeAppenderClosed indicates a write to an appender that was closed.
	ErrCodeAppenderClosed ErrorCode = "APPENDER_CLOSED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeAppenderWriteFailure: true,
	ErrCodeAppenderSetupFailure: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
