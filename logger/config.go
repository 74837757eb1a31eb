package logger

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/loghub/appender"
	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/properties"
	"github.com/kbukum/loghub/severity"
	"github.com/kbukum/loghub/validation"
)

// Recognised property keys. Any other key is ignored by Configure.
const (
	KeyConsoleLevel   = "lh.console.level"
	KeyConsoleColor   = "lh.console.color"
	KeyConsoleEnabled = "lh.console.enabled"
	KeyConsoleOutput  = "lh.console.output"
	KeyConsoleFormat  = "lh.console.format"

	KeyFileEnabled = "lh.file.enabled"
	KeyFilePath    = "lh.file.path"
	KeyFileLevel   = "lh.file.level"
	KeyFileFormat  = "lh.file.format"

	KeySyslogEnabled = "lh.syslog.enabled"
	KeySyslogLevel   = "lh.syslog.level"
	KeySyslogFormat  = "lh.syslog.format"
	KeySyslogNetwork = "lh.syslog.network"
	KeySyslogAddress = "lh.syslog.address"
	KeySyslogTag     = "lh.syslog.tag"

	KeyAsync     = "logger.service.async"
	KeyQueueSize = "logger.service.queue"

	// Per-logger thresholds are written lh.logger.<prefix>.level.
	LoggerKeyPrefix = "lh.logger."
	LoggerKeySuffix = ".level"
)

// Values of lh.console.color.
const (
	ColorOn   = "true"
	ColorOff  = "false"
	ColorAuto = "auto"
)

// Values of lh.console.output.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

// Config is the decoded form of the recognised properties.
type Config struct {
	Level     string `prop:"lh.console.level"`
	Console   ConsoleConfig
	File      FileConfig
	Syslog    SyslogConfig
	Async     bool `prop:"logger.service.async"`
	QueueSize int  `prop:"logger.service.queue" validate:"gt=0"`
	// Loggers maps a lower-case logger name prefix to a severity name.
	Loggers map[string]string `prop:"lh.logger"`
}

// ConsoleConfig configures the console appender.
type ConsoleConfig struct {
	Enabled bool   `prop:"lh.console.enabled"`
	Output  string `prop:"lh.console.output" validate:"oneof=stdout stderr"`
	Color   string `prop:"lh.console.color" validate:"oneof=true false auto"`
	Format  string `prop:"lh.console.format"`
}

// FileConfig configures the file appender.
type FileConfig struct {
	Enabled bool   `prop:"lh.file.enabled"`
	Path    string `prop:"lh.file.path" validate:"required_if=Enabled true"`
	Level   string `prop:"lh.file.level"`
	Format  string `prop:"lh.file.format"`
}

// SyslogConfig configures the syslog appender. An empty Network connects to
// the local daemon.
type SyslogConfig struct {
	Enabled bool   `prop:"lh.syslog.enabled"`
	Level   string `prop:"lh.syslog.level"`
	Format  string `prop:"lh.syslog.format"`
	Network string `prop:"lh.syslog.network" validate:"omitempty,oneof=udp tcp unix unixgram"`
	Address string `prop:"lh.syslog.address" validate:"required_with=Network"`
	Tag     string `prop:"lh.syslog.tag"`
}

// DefaultConfig returns the configuration of a freshly created service:
// INFO threshold, one uncolored console appender on stdout.
func DefaultConfig() Config {
	return Config{
		Level: "info",
		Console: ConsoleConfig{
			Enabled: true,
			Output:  OutputStdout,
			Color:   ColorOff,
		},
		File: FileConfig{
			Level: "trace",
		},
		Syslog: SyslogConfig{
			Level: "trace",
		},
		QueueSize: appender.DefaultQueueSize,
	}
}

// ApplyDefaults fills unset fields of a hand-built Config.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Console.Output == "" {
		c.Console.Output = OutputStdout
	}
	if c.Console.Color == "" {
		c.Console.Color = ColorOff
	}
	if c.File.Level == "" {
		c.File.Level = "trace"
	}
	if c.Syslog.Level == "" {
		c.Syslog.Level = "trace"
	}
	if c.QueueSize == 0 {
		c.QueueSize = appender.DefaultQueueSize
	}
}

// Validate checks every field. Severity names fail with INVALID_SEVERITY,
// everything else with INVALID_CONFIG_VALUE.
func (c *Config) Validate() error {
	if _, err := parseLevel(KeyConsoleLevel, c.Level); err != nil {
		return err
	}
	if c.File.Level != "" {
		if _, err := parseLevel(KeyFileLevel, c.File.Level); err != nil {
			return err
		}
	}
	if c.Syslog.Level != "" {
		if _, err := parseLevel(KeySyslogLevel, c.Syslog.Level); err != nil {
			return err
		}
	}
	for _, prefix := range slices.Sorted(maps.Keys(c.Loggers)) {
		key := LoggerKeyPrefix + prefix + LoggerKeySuffix
		if strings.TrimSpace(prefix) == "" {
			return errors.InvalidConfigValue(key, c.Loggers[prefix], "a logger name prefix")
		}
		if _, err := parseLevel(key, c.Loggers[prefix]); err != nil {
			return err
		}
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if _, err := parseFormat(KeyConsoleFormat, c.Console.Format); err != nil {
		return err
	}
	if _, err := parseFormat(KeyFileFormat, c.File.Format); err != nil {
		return err
	}
	if _, err := parseFormat(KeySyslogFormat, c.Syslog.Format); err != nil {
		return err
	}
	return nil
}

// ConfigFromProperties decodes the recognised keys of p over DefaultConfig.
// Malformed booleans and integers fail here; everything else is checked by
// Validate.
func ConfigFromProperties(p *properties.Properties) (Config, error) {
	cfg := DefaultConfig()
	var err error

	if v, ok := p.Lookup(KeyConsoleLevel); ok {
		cfg.Level = strings.TrimSpace(v)
	}
	if v, ok := p.Lookup(KeyConsoleColor); ok {
		cfg.Console.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := p.Lookup(KeyConsoleOutput); ok {
		cfg.Console.Output = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := p.Lookup(KeyConsoleFormat); ok {
		cfg.Console.Format = v
	}
	if cfg.Console.Enabled, err = p.Bool(KeyConsoleEnabled, cfg.Console.Enabled); err != nil {
		return Config{}, err
	}

	if cfg.File.Enabled, err = p.Bool(KeyFileEnabled, cfg.File.Enabled); err != nil {
		return Config{}, err
	}
	if v, ok := p.Lookup(KeyFilePath); ok {
		cfg.File.Path = strings.TrimSpace(v)
	}
	if v, ok := p.Lookup(KeyFileLevel); ok {
		cfg.File.Level = strings.TrimSpace(v)
	}
	if v, ok := p.Lookup(KeyFileFormat); ok {
		cfg.File.Format = v
	}

	if cfg.Syslog.Enabled, err = p.Bool(KeySyslogEnabled, cfg.Syslog.Enabled); err != nil {
		return Config{}, err
	}
	if v, ok := p.Lookup(KeySyslogLevel); ok {
		cfg.Syslog.Level = strings.TrimSpace(v)
	}
	if v, ok := p.Lookup(KeySyslogFormat); ok {
		cfg.Syslog.Format = v
	}
	if v, ok := p.Lookup(KeySyslogNetwork); ok {
		cfg.Syslog.Network = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := p.Lookup(KeySyslogAddress); ok {
		cfg.Syslog.Address = strings.TrimSpace(v)
	}
	if v, ok := p.Lookup(KeySyslogTag); ok {
		cfg.Syslog.Tag = strings.TrimSpace(v)
	}

	if cfg.Async, err = p.Bool(KeyAsync, cfg.Async); err != nil {
		return Config{}, err
	}
	if cfg.QueueSize, err = p.Int(KeyQueueSize, cfg.QueueSize); err != nil {
		return Config{}, err
	}

	for key, value := range p.All() {
		prefix, ok := loggerPrefix(key)
		if !ok {
			continue
		}
		if cfg.Loggers == nil {
			cfg.Loggers = make(map[string]string)
		}
		cfg.Loggers[prefix] = strings.TrimSpace(value)
	}
	return cfg, nil
}

// Properties renders c as the property set that would produce it.
func (c Config) Properties() *properties.Properties {
	p := properties.New()
	p.Set(KeyConsoleLevel, c.Level)
	p.Set(KeyConsoleColor, c.Console.Color)
	p.Set(KeyConsoleEnabled, strconv.FormatBool(c.Console.Enabled))
	p.Set(KeyConsoleOutput, c.Console.Output)
	if c.Console.Format != "" {
		p.Set(KeyConsoleFormat, c.Console.Format)
	}
	p.Set(KeyFileEnabled, strconv.FormatBool(c.File.Enabled))
	if c.File.Path != "" {
		p.Set(KeyFilePath, c.File.Path)
	}
	p.Set(KeyFileLevel, c.File.Level)
	if c.File.Format != "" {
		p.Set(KeyFileFormat, c.File.Format)
	}
	p.Set(KeySyslogEnabled, strconv.FormatBool(c.Syslog.Enabled))
	p.Set(KeySyslogLevel, c.Syslog.Level)
	if c.Syslog.Format != "" {
		p.Set(KeySyslogFormat, c.Syslog.Format)
	}
	if c.Syslog.Network != "" {
		p.Set(KeySyslogNetwork, c.Syslog.Network)
		p.Set(KeySyslogAddress, c.Syslog.Address)
	}
	if c.Syslog.Tag != "" {
		p.Set(KeySyslogTag, c.Syslog.Tag)
	}
	p.Set(KeyAsync, strconv.FormatBool(c.Async))
	p.Set(KeyQueueSize, strconv.Itoa(c.QueueSize))
	for _, prefix := range slices.Sorted(maps.Keys(c.Loggers)) {
		p.Set(LoggerKeyPrefix+prefix+LoggerKeySuffix, c.Loggers[prefix])
	}
	return p
}

func (c Config) clone() Config {
	c.Loggers = maps.Clone(c.Loggers)
	return c
}

// loggerPrefix extracts <prefix> from lh.logger.<prefix>.level. Matching on
// the key is case-insensitive and the prefix is returned in lower case.
func loggerPrefix(key string) (string, bool) {
	lower := strings.ToLower(key)
	if !strings.HasPrefix(lower, LoggerKeyPrefix) || !strings.HasSuffix(lower, LoggerKeySuffix) {
		return "", false
	}
	if len(lower) < len(LoggerKeyPrefix)+len(LoggerKeySuffix) {
		return "", false
	}
	return lower[len(LoggerKeyPrefix) : len(lower)-len(LoggerKeySuffix)], true
}

func parseLevel(key, value string) (severity.Level, error) {
	l, err := severity.Parse(value)
	if err != nil {
		if e, ok := errors.AsError(err); ok {
			return 0, e.WithDetail("key", key)
		}
		return 0, err
	}
	return l, nil
}

func parseFormat(key, format string) (*appender.Layout, error) {
	if format == "" {
		return appender.DefaultLayout(), nil
	}
	l, err := appender.ParseLayout(format)
	if err != nil {
		return nil, errors.InvalidConfigValue(key, format, "a layout such as "+appender.DefaultFormat).WithCause(err)
	}
	return l, nil
}
