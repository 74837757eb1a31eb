package logger

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/kbukum/loghub/errors"
)

// Field names used on the diagnostic channel.
const (
	FieldComponent = "component"
	FieldServiceID = "service_id"
	FieldAppender  = "appender"
	FieldLogger    = "logger"
	FieldCode      = "code"
	FieldLevel     = "threshold"
	FieldAppenders = "appenders"
)

// ComponentName tags every diagnostic event.
const ComponentName = "loghub"

// newDiagnostics builds the service's own zerolog logger. It reports
// problems with the logging pipeline itself and never feeds back into it.
func newDiagnostics(w io.Writer, serviceID string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}).With().
		Timestamp().
		Str(FieldComponent, ComponentName).
		Str(FieldServiceID, serviceID).
		Logger()
}

// appenderOf returns the appender name carried by err, if any.
func appenderOf(err error) string {
	if e, ok := errors.AsError(err); ok {
		if name, ok := e.Details["appender"].(string); ok {
			return name
		}
	}
	return "unknown"
}
