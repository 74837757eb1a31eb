//go:build !windows && !plan9

package appender

import (
	"log/syslog"
	"sync"

	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/severity"
)

// DefaultSyslogTag identifies loghub records in the system log.
const DefaultSyslogTag = "loghub"

// Syslog sends each record to the system logger with a priority derived
// from its level. TRACE and DEBUG both map to LOG_DEBUG, FATAL to LOG_CRIT.
type Syslog struct {
	name   string
	layout *Layout

	mu sync.Mutex
	w  *syslog.Writer
}

// DialSyslog connects to the syslog daemon at addr over network. An empty
// network connects to the local daemon. An empty tag means DefaultSyslogTag.
func DialSyslog(network, addr, tag string, opts ...Option) (*Syslog, error) {
	o := buildOptions(SyslogName, opts)
	if tag == "" {
		tag = DefaultSyslogTag
	}
	w, err := syslog.Dial(network, addr, syslog.LOG_USER|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, errors.AppenderSetupFailure(o.name, err)
	}
	return &Syslog{name: o.name, layout: o.layout, w: w}, nil
}

func (a *Syslog) Name() string { return a.name }

func (a *Syslog) Write(r Record) error {
	msg := a.layout.Render(r)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.w == nil {
		return errors.AppenderClosed(a.name)
	}
	var err error
	switch r.Level {
	case severity.Trace, severity.Debug:
		err = a.w.Debug(msg)
	case severity.Info:
		err = a.w.Info(msg)
	case severity.Warn:
		err = a.w.Warning(msg)
	case severity.Fatal:
		err = a.w.Crit(msg)
	default:
		err = a.w.Err(msg)
	}
	if err != nil {
		return errors.AppenderWriteFailure(a.name, err)
	}
	return nil
}

// Close disconnects from the daemon. Later writes fail with APPENDER_CLOSED.
func (a *Syslog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.w == nil {
		return nil
	}
	w := a.w
	a.w = nil
	return w.Close()
}
