// Package errors defines the error taxonomy of the logging service.
//
// Every failure carries a machine-readable [ErrorCode]. Configuration-time
// errors ([ErrCodeInvalidSeverity], [ErrCodeInvalidConfigValue],
// [ErrCodeAppenderSetupFailure]) are returned to the caller of Configure.
// Emission-time errors ([ErrCodeAppenderWriteFailure]) are produced by
// appenders but never reach the caller of a log method; the service reports
// them on its diagnostic channel instead.
//
// Errors compare by code, so the sentinels work with the standard library:
//
//	if errors.Is(err, lherrors.ErrInvalidSeverity) { ... }
package errors
