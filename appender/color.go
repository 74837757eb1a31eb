package appender

import (
	"io"

	"golang.org/x/term"

	"github.com/kbukum/loghub/severity"
)

const colorReset = "\033[0m"

var levelColors = map[severity.Level]string{
	severity.Trace: "\033[34m",
	severity.Debug: "\033[36m",
	severity.Info:  "\033[32m",
	severity.Warn:  "\033[1;33m",
	severity.Error: "\033[1;31m",
	severity.Fatal: "\033[1;35m",
}

// colorFor returns the escape sequence that starts a line at level l.
func colorFor(l severity.Level) string {
	return levelColors[l]
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
