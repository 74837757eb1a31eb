// Package appender provides the destinations that log records are written to.
//
// An [Appender] turns a [Record] into output. Loggers call Write on each of
// their appenders in order; appenders never know which loggers use them.
// Implementations must be safe for concurrent use and must serialise their
// own output so that one record is written as one uninterrupted line.
//
// Provided appenders:
//
//   - [Console]: one line per record on stdout or stderr, optional ANSI color
//   - [File]: append-mode file output
//   - [Syslog]: the system logger, local or over the network
//   - [Null]: discards everything
//   - [Memory]: keeps records and rendered lines, for tests and embedding
//   - [Zerolog]: forwards records to a zerolog.Logger
//   - [Async]: bounded queue in front of another appender
//
// Line layout is controlled by a [Layout] compiled from a template such as
// the default "{time} [{severity}] {name}: {message}".
package appender
