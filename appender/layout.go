package appender

import (
	"strings"

	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/util"
)

const (
	// DefaultFormat is the line layout used when none is configured.
	DefaultFormat = "{time} [{severity}] {name}: {message}"
	// TimeFormat renders record timestamps, always in UTC.
	TimeFormat = "2006-01-02 15:04:05.000000"
)

type token int

const (
	tokLiteral token = iota
	tokTime
	tokSeverity
	tokName
	tokMessage
	tokTrace
)

var tokens = map[string]token{
	"time":     tokTime,
	"date":     tokTime,
	"severity": tokSeverity,
	"level":    tokSeverity,
	"name":     tokName,
	"logger":   tokName,
	"message":  tokMessage,
	"trace":    tokTrace,
}

type part struct {
	tok token
	lit string
}

// Layout is a compiled line template. It is immutable and safe to share.
type Layout struct {
	source string
	parts  []part
}

var defaultLayout = mustParseLayout(DefaultFormat)

// DefaultLayout returns the layout for DefaultFormat.
func DefaultLayout() *Layout {
	return defaultLayout
}

// ParseLayout compiles a template. Placeholders are written in braces:
// {time}, {severity} (or {level}), {name} (or {logger}), {message} and
// {trace}. Doubled braces produce literal braces.
func ParseLayout(format string) (*Layout, error) {
	l := &Layout{source: format}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.parts = append(l.parts, part{tok: tokLiteral, lit: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return nil, errors.InvalidConfigValue("format", format, "a closing brace").
					WithDetail("position", i)
			}
			name := format[i+1 : i+1+end]
			tok, ok := tokens[strings.ToLower(name)]
			if !ok {
				return nil, errors.InvalidConfigValue("format", format,
					"placeholders {time} {severity} {name} {message} {trace}").
					WithDetail("placeholder", name)
			}
			flush()
			l.parts = append(l.parts, part{tok: tok})
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return l, nil
}

func mustParseLayout(format string) *Layout {
	l, err := ParseLayout(format)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the template the layout was compiled from.
func (l *Layout) String() string {
	return l.source
}

// AppendRecord renders r onto dst without a trailing newline.
func (l *Layout) AppendRecord(dst []byte, r Record) []byte {
	for _, p := range l.parts {
		switch p.tok {
		case tokLiteral:
			dst = append(dst, p.lit...)
		case tokTime:
			dst = r.Time.UTC().AppendFormat(dst, TimeFormat)
		case tokSeverity:
			dst = append(dst, r.Level.String()...)
		case tokName:
			dst = append(dst, r.Logger...)
		case tokMessage:
			dst = append(dst, util.OneLine(r.Message)...)
		case tokTrace:
			dst = append(dst, r.TraceID...)
		}
	}
	return dst
}

// Render returns r rendered as a string without a trailing newline.
func (l *Layout) Render(r Record) string {
	return string(l.AppendRecord(nil, r))
}
