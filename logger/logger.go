package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/loghub/appender"
	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/observability"
	"github.com/kbukum/loghub/severity"
)

// fatalShutdownTimeout bounds the flush performed by Fatal before exiting.
const fatalShutdownTimeout = 5 * time.Second

// exit terminates the process after a fatal record. Tests replace it.
var exit = os.Exit

// Logger is a named emitter with its own threshold. Loggers are created and
// cached by a Service; every holder of the same name shares one *Logger.
type Logger struct {
	name string
	svc  *Service

	level     atomic.Int32
	appenders atomic.Pointer[[]appender.Appender] // nil inherits the service set

	mu       sync.Mutex // orders SetLevel against configuration updates
	explicit bool
}

func newLogger(svc *Service, name string, level severity.Level) *Logger {
	l := &Logger{name: name, svc: svc}
	l.level.Store(int32(level))
	return l
}

// Name returns the logger's name.
func (l *Logger) Name() string { return l.name }

// Level returns the current threshold.
func (l *Logger) Level() severity.Level {
	return severity.Level(l.level.Load())
}

// SetLevel changes the threshold for every holder of this logger. A logger
// with an explicit level is no longer updated by Configure. Out-of-range
// levels are clamped to TRACE or FATAL.
func (l *Logger) SetLevel(level severity.Level) {
	level = max(severity.Trace, min(level, severity.Fatal))
	l.mu.Lock()
	l.explicit = true
	l.level.Store(int32(level))
	l.mu.Unlock()
}

// ResetLevel drops an explicit level; the logger follows the service
// configuration again.
func (l *Logger) ResetLevel() {
	// install holds svc.mu while re-resolving, so a concurrent Configure
	// cannot slip in between resolve and store.
	l.svc.mu.RLock()
	defer l.svc.mu.RUnlock()

	l.mu.Lock()
	l.explicit = false
	l.level.Store(int32(l.svc.settings.Load().resolve(l.name)))
	l.mu.Unlock()
}

// inherit applies a configured threshold unless SetLevel was called.
func (l *Logger) inherit(level severity.Level) {
	l.mu.Lock()
	if !l.explicit {
		l.level.Store(int32(level))
	}
	l.mu.Unlock()
}

// Enabled reports whether a record at level would be emitted.
func (l *Logger) Enabled(level severity.Level) bool {
	return level.Enabled(l.Level())
}

// SetAppenders gives the logger its own appenders in place of the service
// default set. Calling it with no appenders restores the default set.
func (l *Logger) SetAppenders(appenders ...appender.Appender) {
	own := make([]appender.Appender, 0, len(appenders))
	for _, a := range appenders {
		if a != nil {
			own = append(own, a)
		}
	}
	if len(own) == 0 {
		l.appenders.Store(nil)
		return
	}
	l.appenders.Store(&own)
}

// UseAppenders is SetAppenders with appenders looked up by name on the
// service. If any name is unknown nothing changes.
func (l *Logger) UseAppenders(names ...string) error {
	resolved := make([]appender.Appender, 0, len(names))
	for _, name := range names {
		a, ok := l.svc.Appender(name)
		if !ok {
			return errors.AppenderNotFound(name)
		}
		resolved = append(resolved, a)
	}
	l.SetAppenders(resolved...)
	return nil
}

// Appenders returns the appenders records are currently sent to.
func (l *Logger) Appenders() []appender.Appender {
	return append([]appender.Appender(nil), l.targets()...)
}

func (l *Logger) targets() []appender.Appender {
	if own := l.appenders.Load(); own != nil {
		return *own
	}
	return *l.svc.defaults.Load()
}

// Log emits msg at level if level passes the threshold.
func (l *Logger) Log(level severity.Level, msg string) {
	if !l.Enabled(level) {
		return
	}
	l.emit(context.Background(), level, msg)
}

// LogContext is Log with the trace and span ids of the span in ctx added to
// the record.
func (l *Logger) LogContext(ctx context.Context, level severity.Level, msg string) {
	if !l.Enabled(level) {
		return
	}
	l.emit(ctx, level, msg)
}

// Logf formats and emits a message if level passes the threshold. Arguments
// are not formatted otherwise.
func (l *Logger) Logf(level severity.Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.emit(context.Background(), level, fmt.Sprintf(format, args...))
}

func (l *Logger) emit(ctx context.Context, level severity.Level, msg string) {
	s := l.svc
	if s.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	r := appender.Record{
		Time:    s.now(),
		Logger:  l.name,
		Level:   level,
		Message: msg,
	}
	r.TraceID, r.SpanID = observability.SpanIDs(ctx)

	for _, a := range l.targets() {
		s.write(a, r)
	}
	s.metrics.RecordEmitted(ctx, level.String())
}

func (l *Logger) Trace(msg string) { l.Log(severity.Trace, msg) }

func (l *Logger) Debug(msg string) { l.Log(severity.Debug, msg) }

func (l *Logger) Info(msg string) { l.Log(severity.Info, msg) }

func (l *Logger) Warn(msg string) { l.Log(severity.Warn, msg) }

func (l *Logger) Error(msg string) { l.Log(severity.Error, msg) }

func (l *Logger) Tracef(format string, args ...any) { l.Logf(severity.Trace, format, args...) }

func (l *Logger) Debugf(format string, args ...any) { l.Logf(severity.Debug, format, args...) }

func (l *Logger) Infof(format string, args ...any) { l.Logf(severity.Info, format, args...) }

func (l *Logger) Warnf(format string, args ...any) { l.Logf(severity.Warn, format, args...) }

func (l *Logger) Errorf(format string, args ...any) { l.Logf(severity.Error, format, args...) }

// Fatal logs msg at FATAL, shuts the service down and exits with status 1.
func (l *Logger) Fatal(msg string) {
	l.Log(severity.Fatal, msg)
	l.die()
}

// Fatalf is Fatal with a formatted message.
func (l *Logger) Fatalf(format string, args ...any) {
	l.Logf(severity.Fatal, format, args...)
	l.die()
}

func (l *Logger) die() {
	ctx, cancel := context.WithTimeout(context.Background(), fatalShutdownTimeout)
	_ = l.svc.Shutdown(ctx)
	cancel()
	exit(1)
}
