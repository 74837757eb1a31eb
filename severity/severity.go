// Package severity defines the ordered set of log levels used for filtering.
//
// Levels map to small stable integers, so comparing two levels with < and >=
// is the filtering rule everywhere: a record is emitted when its level is
// greater than or equal to the threshold.
package severity

import (
	"strings"

	"github.com/kbukum/loghub/errors"
)

// Level is a log severity. The numeric encoding is stable and monotonic.
type Level int32

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

var names = [...]string{
	Trace: "TRACE",
	Debug: "DEBUG",
	Info:  "INFO",
	Warn:  "WARN",
	Error: "ERROR",
	Fatal: "FATAL",
}

// aliases accepted by Parse, lower case.
var aliases = map[string]Level{
	"trace":   Trace,
	"debug":   Debug,
	"info":    Info,
	"warn":    Warn,
	"warning": Warn,
	"err":     Error,
	"error":   Error,
	"fatal":   Fatal,
}

// All returns every level in ascending order.
func All() []Level {
	return []Level{Trace, Debug, Info, Warn, Error, Fatal}
}

// Parse converts a level name to a Level. Matching is case-insensitive and
// ignores surrounding whitespace. Unknown names fail with INVALID_SEVERITY.
func Parse(name string) (Level, error) {
	if l, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return Info, errors.InvalidSeverity(name)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(name string) Level {
	l, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return l
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= Trace && l <= Fatal
}

// Enabled reports whether a record at level l passes threshold.
func (l Level) Enabled(threshold Level) bool {
	return l >= threshold
}

// String returns the upper-case level name.
func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return names[l]
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.InvalidSeverity(l.String())
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
