// Package logger is the process-wide logging service: a registry of named
// loggers with severity thresholds, configured from properties and writing
// to a shared set of appenders.
//
// # Configuration
//
//	lh.console.level = debug
//	lh.console.color = auto
//	lh.file.enabled  = true
//	lh.file.path     = /var/log/app.log
//	lh.syslog.enabled = true
//	lh.syslog.level   = warn
//	lh.logger.db.level = warn
//
// Unknown keys are ignored. A rejected configuration leaves the previous one
// in effect.
//
// # Usage
//
//	p := properties.New()
//	p.Set(logger.KeyConsoleLevel, "debug")
//	if err := logger.Configure(p); err != nil {
//	    return err
//	}
//	defer logger.Shutdown(context.Background())
//
//	log := logger.Get("db.pool")
//	log.Debugf("opened %d connections", n)
//
// Appender failures never reach the caller of a log method. They are
// reported on the service's diagnostic stream (stderr by default) and
// counted in the loghub.appender.failures metric.
package logger
