//go:build windows || plan9

package appender

import (
	"fmt"
	"runtime"

	"github.com/kbukum/loghub/errors"
)

const DefaultSyslogTag = "loghub"

// Syslog is unavailable on this platform; DialSyslog always fails.
type Syslog struct{ name string }

func DialSyslog(network, addr, tag string, opts ...Option) (*Syslog, error) {
	o := buildOptions(SyslogName, opts)
	return nil, errors.AppenderSetupFailure(o.name, fmt.Errorf("syslog is not supported on %s", runtime.GOOS))
}

func (a *Syslog) Name() string { return a.name }

func (a *Syslog) Write(Record) error { return errors.AppenderClosed(a.name) }

func (a *Syslog) Close() error { return nil }
