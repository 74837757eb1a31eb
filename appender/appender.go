package appender

import (
	"time"

	"github.com/kbukum/loghub/severity"
)

// Record is a single accepted log event.
type Record struct {
	Time    time.Time
	Logger  string
	Level   severity.Level
	Message string
	// TraceID and SpanID are set when the record was emitted with a context
	// carrying an OpenTelemetry span.
	TraceID string
	SpanID  string
}

// Appender is a destination for log records.
type Appender interface {
	// Name identifies the appender in registries and diagnostics.
	Name() string
	// Write renders and outputs one record.
	Write(r Record) error
	// Close flushes and releases any resources held by the appender.
	Close() error
}

// Flusher is implemented by appenders that buffer output.
type Flusher interface {
	Flush() error
}

// Flush flushes a if it implements Flusher.
func Flush(a Appender) error {
	if f, ok := a.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Null discards every record.
type Null struct {
	name string
}

// NewNull creates a discarding appender.
func NewNull(opts ...Option) *Null {
	o := buildOptions("null", opts)
	return &Null{name: o.name}
}

func (n *Null) Name() string { return n.name }

func (n *Null) Write(_ Record) error { return nil }

func (n *Null) Close() error { return nil }

// Filter wraps a so that records below min are skipped.
func Filter(a Appender, min severity.Level) Appender {
	return &filtered{Appender: a, min: min}
}

type filtered struct {
	Appender
	min severity.Level
}

func (f *filtered) Write(r Record) error {
	if !r.Level.Enabled(f.min) {
		return nil
	}
	return f.Appender.Write(r)
}

func (f *filtered) Flush() error { return Flush(f.Appender) }

// Unwrap returns the filtered appender.
func (f *filtered) Unwrap() Appender { return f.Appender }

// Option configures an appender.
type Option func(*options)

// Default names of the built-in appenders.
const (
	ConsoleName = "console"
	FileName    = "file"
	SyslogName  = "syslog"
)

type options struct {
	name   string
	layout *Layout
	color  bool
}

// WithName overrides the appender's default name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLayout sets the line layout. A nil layout keeps the default.
func WithLayout(l *Layout) Option {
	return func(o *options) {
		if l != nil {
			o.layout = l
		}
	}
}

// WithColor enables ANSI color output. Only the console appender colors.
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = enabled }
}

func buildOptions(name string, opts []Option) options {
	o := options{name: name, layout: DefaultLayout()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
