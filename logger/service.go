package logger

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/loghub/appender"
	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/observability"
	"github.com/kbukum/loghub/properties"
	"github.com/kbukum/loghub/severity"
)

// RootName replaces an empty logger name.
const RootName = "root"

// Service is a registry of named loggers sharing one configuration and one
// default set of appenders.
type Service struct {
	id        string
	stdout    io.Writer
	stderr    io.Writer
	diagOut   io.Writer
	meterProv metric.MeterProvider
	now       func() time.Time

	diag    zerolog.Logger
	metrics *observability.Metrics
	null    appender.Appender

	mu      sync.RWMutex // guards loggers and settings swaps
	loggers map[string]*Logger

	settings atomic.Pointer[settings]
	defaults atomic.Pointer[[]appender.Appender]
	extra    *appender.Registry

	cfgMu  sync.Mutex // serialises changes to configuration and appenders
	closed atomic.Bool
}

// settings is an immutable snapshot produced by Configure.
type settings struct {
	cfg       Config
	level     severity.Level
	prefixes  []prefixLevel
	appenders []appender.Appender
}

type prefixLevel struct {
	prefix string
	level  severity.Level
}

// resolve returns the threshold for a logger called name: the level of the
// longest prefix matching name on a dot boundary, else the default.
func (st *settings) resolve(name string) severity.Level {
	lower := strings.ToLower(name)
	for _, p := range st.prefixes {
		if lower == p.prefix || strings.HasPrefix(lower, p.prefix+".") {
			return p.level
		}
	}
	return st.level
}

// Option configures a Service.
type Option func(*Service)

// WithStdout sets the stream used by a console appender with output stdout.
func WithStdout(w io.Writer) Option {
	return func(s *Service) { s.stdout = w }
}

// WithStderr sets the stream used by a console appender with output stderr.
func WithStderr(w io.Writer) Option {
	return func(s *Service) { s.stderr = w }
}

// WithDiagnostics sets where the service reports its own failures.
func WithDiagnostics(w io.Writer) Option {
	return func(s *Service) { s.diagOut = w }
}

// WithMeterProvider sets the provider for the service's metrics. The global
// OpenTelemetry provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meterProv = mp }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates an independent service with the default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		id:      uuid.NewString(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		diagOut: os.Stderr,
		now:     time.Now,
		null:    appender.NewNull(),
		loggers: make(map[string]*Logger),
		extra:   appender.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.diag = newDiagnostics(s.diagOut, s.id)

	m, err := observability.NewMetrics(observability.Meter(s.meterProv))
	if err != nil {
		s.diag.Warn().Err(err).Msg("metrics disabled")
		m = observability.NoopMetrics()
	}
	s.metrics = m

	cfg := DefaultConfig()
	st, err := s.build(cfg)
	if err != nil {
		// the default configuration only creates a console appender
		s.diag.Error().Err(err).Msg("failed to build default appenders")
		st = &settings{cfg: cfg, level: severity.Info}
	}
	s.install(st)
	return s
}

// ID returns the identifier reported with every diagnostic event.
func (s *Service) ID() string { return s.id }

// Configure applies the recognised keys of p. On any error the previous
// configuration stays in effect. On success, loggers without an explicit
// level are re-resolved against the new thresholds and the previously
// configured appenders are flushed and closed.
func (s *Service) Configure(p *properties.Properties) error {
	cfg, err := ConfigFromProperties(p)
	if err != nil {
		return err
	}
	return s.apply(cfg)
}

// Apply is Configure for a Config built in code. Unset fields take their
// defaults.
func (s *Service) Apply(cfg Config) error {
	cfg = cfg.clone()
	cfg.ApplyDefaults()
	return s.apply(cfg)
}

func (s *Service) apply(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	if s.closed.Load() {
		return errors.New(errors.ErrCodeAppenderClosed, "logging service is shut down")
	}

	st, err := s.build(cfg)
	if err != nil {
		return err
	}
	old := s.install(st)
	s.retire(old.appenders)

	s.diag.Debug().
		Str(FieldLevel, st.level.String()).
		Strs(FieldAppenders, names(st.appenders)).
		Msg("configuration applied")
	return nil
}

// build opens the appenders described by cfg. Nothing is installed; on
// failure the appenders opened so far are closed again.
func (s *Service) build(cfg Config) (*settings, error) {
	level, err := parseLevel(KeyConsoleLevel, cfg.Level)
	if err != nil {
		return nil, err
	}
	st := &settings{cfg: cfg.clone(), level: level}

	for prefix, name := range cfg.Loggers {
		l, err := parseLevel(LoggerKeyPrefix+prefix+LoggerKeySuffix, name)
		if err != nil {
			return nil, err
		}
		st.prefixes = append(st.prefixes, prefixLevel{prefix: strings.ToLower(prefix), level: l})
	}
	sort.Slice(st.prefixes, func(i, j int) bool {
		return len(st.prefixes[i].prefix) > len(st.prefixes[j].prefix)
	})

	var built []appender.Appender
	fail := func(err error) (*settings, error) {
		if cerr := appender.CloseAll(built); cerr != nil {
			s.diag.Warn().Err(cerr).Msg("failed to close partially built appenders")
		}
		return nil, err
	}

	if cfg.Console.Enabled {
		layout, err := parseFormat(KeyConsoleFormat, cfg.Console.Format)
		if err != nil {
			return fail(err)
		}
		out := s.stdout
		if cfg.Console.Output == OutputStderr {
			out = s.stderr
		}
		color := cfg.Console.Color == ColorOn ||
			(cfg.Console.Color == ColorAuto && appender.IsTerminal(out))
		built = append(built, appender.NewConsole(out, appender.WithLayout(layout), appender.WithColor(color)))
	}

	if cfg.File.Enabled {
		layout, err := parseFormat(KeyFileFormat, cfg.File.Format)
		if err != nil {
			return fail(err)
		}
		minLevel := severity.Trace
		if cfg.File.Level != "" {
			if minLevel, err = parseLevel(KeyFileLevel, cfg.File.Level); err != nil {
				return fail(err)
			}
		}
		f, err := appender.OpenFile(cfg.File.Path, appender.WithLayout(layout))
		if err != nil {
			return fail(err)
		}
		var a appender.Appender = f
		if minLevel > severity.Trace {
			a = appender.Filter(f, minLevel)
		}
		built = append(built, a)
	}

	if cfg.Syslog.Enabled {
		layout, err := parseFormat(KeySyslogFormat, cfg.Syslog.Format)
		if err != nil {
			return fail(err)
		}
		minLevel, err := parseLevel(KeySyslogLevel, cmp.Or(cfg.Syslog.Level, "trace"))
		if err != nil {
			return fail(err)
		}
		sl, err := appender.DialSyslog(cfg.Syslog.Network, cfg.Syslog.Address, cfg.Syslog.Tag, appender.WithLayout(layout))
		if err != nil {
			return fail(err)
		}
		var a appender.Appender = sl
		if minLevel > severity.Trace {
			a = appender.Filter(sl, minLevel)
		}
		built = append(built, a)
	}

	// AddAppender names are reserved until removed
	for _, a := range built {
		if _, taken := s.extra.Get(a.Name()); taken {
			return fail(errors.AppenderExists(a.Name()))
		}
	}

	if cfg.Async {
		for i, a := range built {
			built[i] = appender.NewAsync(a, cfg.QueueSize,
				appender.OnError(s.reportFailure),
				appender.OnDrop(s.dropHandler(a.Name())),
			)
		}
	}

	st.appenders = built
	return st, nil
}

// install swaps in st, re-resolves inherited logger levels and rebuilds the
// default appender set. It returns the replaced snapshot.
func (s *Service) install(st *settings) *settings {
	s.mu.Lock()
	old := s.settings.Swap(st)
	for _, l := range s.loggers {
		l.inherit(st.resolve(l.name))
	}
	s.mu.Unlock()

	s.refreshDefaults()
	if old == nil {
		old = &settings{}
	}
	return old
}

// refreshDefaults recomputes the appenders used by loggers without their
// own list. The set is never empty.
func (s *Service) refreshDefaults() {
	set := slices.Concat(s.settings.Load().appenders, s.extra.All())
	if len(set) == 0 {
		set = []appender.Appender{s.null}
	}
	s.defaults.Store(&set)
}

// retire flushes and closes appenders that are no longer installed.
func (s *Service) retire(appenders []appender.Appender) {
	for _, a := range appenders {
		if err := appender.Flush(a); err != nil {
			s.diag.Warn().Err(err).Str(FieldAppender, a.Name()).Msg("failed to flush retired appender")
		}
	}
	if err := appender.CloseAll(appenders); err != nil {
		s.diag.Warn().Err(err).Msg("failed to close retired appenders")
	}
}

// Logger returns the logger called name, creating it on first use. The same
// name always yields the same *Logger. An empty name means RootName.
func (s *Service) Logger(name string) *Logger {
	if name == "" {
		name = RootName
	}

	s.mu.RLock()
	l, ok := s.loggers[name]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loggers[name]; ok {
		return l
	}
	l = newLogger(s, name, s.settings.Load().resolve(name))
	s.loggers[name] = l
	return l
}

// Loggers returns the names of every logger created so far, sorted.
func (s *Service) Loggers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.loggers))
	for name := range s.loggers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Level returns the default threshold.
func (s *Service) Level() severity.Level {
	return s.settings.Load().level
}

// Settings returns a copy of the configuration in effect.
func (s *Service) Settings() Config {
	return s.settings.Load().cfg.clone()
}

// AddAppender adds a to the default appender set of every logger that has
// no list of its own. Names must be unique across the service.
func (s *Service) AddAppender(a appender.Appender) error {
	if a == nil {
		return errors.AppenderSetupFailure("<nil>", fmt.Errorf("appender is nil"))
	}
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.configured(a.Name()) != nil {
		return errors.AppenderExists(a.Name())
	}
	if err := s.extra.Register(a); err != nil {
		return err
	}
	s.refreshDefaults()
	return nil
}

// RemoveAppender takes the appender called name out of the default set,
// then flushes and closes it. Configured appenders can be removed too; they
// come back on the next Configure.
func (s *Service) RemoveAppender(name string) error {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	a, ok := s.extra.Remove(name)
	if ok {
		s.refreshDefaults()
	} else {
		st := s.settings.Load()
		if a = s.configured(name); a == nil {
			return errors.AppenderNotFound(name)
		}
		next := *st
		next.cfg = st.cfg.clone()
		next.appenders = slices.DeleteFunc(slices.Clone(st.appenders), func(e appender.Appender) bool {
			return e == a
		})
		switch name {
		case appender.ConsoleName:
			next.cfg.Console.Enabled = false
		case appender.FileName:
			next.cfg.File.Enabled = false
		case appender.SyslogName:
			next.cfg.Syslog.Enabled = false
		}
		s.install(&next)
	}

	return stderrors.Join(appender.Flush(a), a.Close())
}

// Appender returns the installed appender called name.
func (s *Service) Appender(name string) (appender.Appender, bool) {
	if a := s.configured(name); a != nil {
		return a, true
	}
	return s.extra.Get(name)
}

func (s *Service) configured(name string) appender.Appender {
	for _, a := range s.settings.Load().appenders {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Flush flushes every appender in the default set.
func (s *Service) Flush() error {
	var errs []error
	for _, a := range *s.defaults.Load() {
		if err := appender.Flush(a); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush %s: %w", a.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}

// Shutdown flushes and closes every installed appender, most recently
// registered first. Records logged afterwards are dropped. Shutdown returns
// ctx.Err() if ctx ends before the appenders are closed.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		errs := []error{s.Flush()}
		errs = append(errs, appender.CloseAll(s.settings.Load().appenders))
		errs = append(errs, s.extra.CloseAll())
		done <- stderrors.Join(errs...)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.diag.Warn().Err(err).Msg("shutdown completed with errors")
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Closed reports whether Shutdown has been called.
func (s *Service) Closed() bool { return s.closed.Load() }

// write hands r to a, turning a returned error or a panic into a reported
// APPENDER_WRITE_FAILURE.
func (s *Service) write(a appender.Appender, r appender.Record) {
	if err := safeWrite(a, r); err != nil {
		s.reportFailure(err)
	}
}

func safeWrite(a appender.Appender, r appender.Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.AppenderWriteFailure(a.Name(), fmt.Errorf("panic: %v", p))
		}
	}()
	if err := a.Write(r); err != nil {
		if stderrors.Is(err, errors.ErrAppenderWriteFailure) || stderrors.Is(err, errors.ErrAppenderClosed) {
			return err
		}
		return errors.AppenderWriteFailure(a.Name(), err)
	}
	return nil
}

func (s *Service) reportFailure(err error) {
	name := appenderOf(err)
	s.diag.Error().
		Err(err).
		Str(FieldAppender, name).
		Str(FieldCode, string(errors.CodeOf(err))).
		Msg("appender write failed")
	s.metrics.RecordFailure(context.Background(), name)
}

func (s *Service) dropHandler(name string) func(appender.Record) {
	return func(r appender.Record) {
		s.diag.Warn().
			Str(FieldAppender, name).
			Str(FieldLogger, r.Logger).
			Msg("async queue full, record dropped")
		s.metrics.RecordDropped(context.Background(), name)
	}
}

func names(appenders []appender.Appender) []string {
	out := make([]string, len(appenders))
	for i, a := range appenders {
		out[i] = a.Name()
	}
	return out
}

// --- Process-wide service ---

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide service, creating it on first use.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = New()
	})
	return defaultService
}

// Get returns a logger from the process-wide service.
func Get(name string) *Logger {
	return Default().Logger(name)
}

// Configure configures the process-wide service.
func Configure(p *properties.Properties) error {
	return Default().Configure(p)
}

// Shutdown shuts the process-wide service down.
func Shutdown(ctx context.Context) error {
	return Default().Shutdown(ctx)
}
