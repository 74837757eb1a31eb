package appender

import (
	"github.com/rs/zerolog"

	"github.com/kbukum/loghub/severity"
)

// Field names added to forwarded zerolog events.
const (
	FieldLogger  = "logger"
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"
)

var zerologLevels = map[severity.Level]zerolog.Level{
	severity.Trace: zerolog.TraceLevel,
	severity.Debug: zerolog.DebugLevel,
	severity.Info:  zerolog.InfoLevel,
	severity.Warn:  zerolog.WarnLevel,
	severity.Error: zerolog.ErrorLevel,
	severity.Fatal: zerolog.FatalLevel,
}

// Zerolog forwards records to a zerolog.Logger, so that loghub loggers can
// feed an application's existing zerolog pipeline. Fatal records are logged
// at fatal level without terminating the process.
type Zerolog struct {
	name string
	zl   zerolog.Logger
}

// NewZerolog creates a bridge appender around zl.
func NewZerolog(zl zerolog.Logger, opts ...Option) *Zerolog {
	o := buildOptions("zerolog", opts)
	return &Zerolog{name: o.name, zl: zl}
}

func (z *Zerolog) Name() string { return z.name }

func (z *Zerolog) Write(r Record) error {
	lvl, ok := zerologLevels[r.Level]
	if !ok {
		lvl = zerolog.NoLevel
	}
	event := z.zl.WithLevel(lvl)
	if event == nil {
		return nil
	}
	event = event.Time(zerolog.TimestampFieldName, r.Time).Str(FieldLogger, r.Logger)
	if r.TraceID != "" {
		event = event.Str(FieldTraceID, r.TraceID)
	}
	if r.SpanID != "" {
		event = event.Str(FieldSpanID, r.SpanID)
	}
	event.Msg(r.Message)
	return nil
}

func (z *Zerolog) Close() error { return nil }
