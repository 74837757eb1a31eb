package logger

import (
	stderrors "errors"
	"testing"

	"github.com/kbukum/loghub/errors"
)

func TestConfigFromProperties(t *testing.T) {
	cfg, err := ConfigFromProperties(props(
		KeyConsoleLevel, " Debug ",
		KeyConsoleColor, "AUTO",
		KeyConsoleOutput, "StdErr",
		KeyFileEnabled, "TRUE",
		KeyFilePath, " /tmp/app.log ",
		KeySyslogEnabled, "true",
		KeySyslogLevel, "warn",
		KeySyslogNetwork, "UDP",
		KeySyslogAddress, " 127.0.0.1:514 ",
		KeySyslogTag, "billing",
		KeyAsync, "true",
		KeyQueueSize, "16",
		"lh.logger.Net.HTTP.level", "warn",
		"lh.logger.level", "ignored",
		"something.else", "ignored",
	))
	if err != nil {
		t.Fatalf("ConfigFromProperties failed: %v", err)
	}

	if cfg.Level != "Debug" {
		t.Errorf("Level = %q", cfg.Level)
	}
	if cfg.Console.Color != ColorAuto || cfg.Console.Output != OutputStderr || !cfg.Console.Enabled {
		t.Errorf("Console = %+v", cfg.Console)
	}
	if !cfg.File.Enabled || cfg.File.Path != "/tmp/app.log" || cfg.File.Level != "trace" {
		t.Errorf("File = %+v", cfg.File)
	}
	want := SyslogConfig{Enabled: true, Level: "warn", Network: "udp", Address: "127.0.0.1:514", Tag: "billing"}
	if cfg.Syslog != want {
		t.Errorf("Syslog = %+v, want %+v", cfg.Syslog, want)
	}
	if !cfg.Async || cfg.QueueSize != 16 {
		t.Errorf("Async = %v QueueSize = %d", cfg.Async, cfg.QueueSize)
	}
	if len(cfg.Loggers) != 1 || cfg.Loggers["net.http"] != "warn" {
		t.Errorf("Loggers = %v", cfg.Loggers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestConfigFromEmptyPropertiesIsDefault(t *testing.T) {
	cfg, err := ConfigFromProperties(props())
	if err != nil {
		t.Fatalf("ConfigFromProperties failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Level != def.Level || cfg.Console != def.Console || cfg.File != def.File || cfg.Syslog != def.Syslog || cfg.QueueSize != def.QueueSize {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantKey string
	}{
		{"defaults", func(*Config) {}, nil, ""},
		{"level", func(c *Config) { c.Level = "loud" }, errors.ErrInvalidSeverity, KeyConsoleLevel},
		{"file level", func(c *Config) { c.File.Level = "x" }, errors.ErrInvalidSeverity, KeyFileLevel},
		{"logger level", func(c *Config) { c.Loggers = map[string]string{"db": "x"} }, errors.ErrInvalidSeverity, "lh.logger.db.level"},
		{"empty prefix", func(c *Config) { c.Loggers = map[string]string{"": "info"} }, errors.ErrInvalidConfigValue, "lh.logger..level"},
		{"color", func(c *Config) { c.Console.Color = "sometimes" }, errors.ErrInvalidConfigValue, KeyConsoleColor},
		{"output", func(c *Config) { c.Console.Output = "socket" }, errors.ErrInvalidConfigValue, KeyConsoleOutput},
		{"file path", func(c *Config) { c.File.Enabled = true }, errors.ErrInvalidConfigValue, KeyFilePath},
		{"syslog level", func(c *Config) { c.Syslog.Level = "x" }, errors.ErrInvalidSeverity, KeySyslogLevel},
		{"syslog network", func(c *Config) { c.Syslog.Network = "pigeon" }, errors.ErrInvalidConfigValue, KeySyslogNetwork},
		{"syslog address", func(c *Config) { c.Syslog.Network = "tcp" }, errors.ErrInvalidConfigValue, KeySyslogAddress},
		{"syslog format", func(c *Config) { c.Syslog.Format = "{severity" }, errors.ErrInvalidConfigValue, KeySyslogFormat},
		{"queue", func(c *Config) { c.QueueSize = -1 }, errors.ErrInvalidConfigValue, KeyQueueSize},
		{"console format", func(c *Config) { c.Console.Format = "{time" }, errors.ErrInvalidConfigValue, KeyConsoleFormat},
		{"file format", func(c *Config) { c.File.Format = "{bogus}" }, errors.ErrInvalidConfigValue, KeyFileFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !stderrors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			e, _ := errors.AsError(err)
			if e.Details["key"] != tc.wantKey {
				t.Errorf("key = %v, want %s", e.Details["key"], tc.wantKey)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Console.Output != OutputStdout || cfg.Console.Color != ColorOff {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.QueueSize <= 0 {
		t.Errorf("expected a positive queue size, got %d", cfg.QueueSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigPropertiesRoundTrip(t *testing.T) {
	in := DefaultConfig()
	in.Level = "warn"
	in.Console.Color = ColorOn
	in.File = FileConfig{Enabled: true, Path: "/var/log/x.log", Level: "error", Format: "{message}"}
	in.Syslog = SyslogConfig{Enabled: true, Level: "info", Format: "{name}: {message}", Network: "tcp", Address: "logs:514", Tag: "app"}
	in.Loggers = map[string]string{"db": "debug", "net": "trace"}

	out, err := ConfigFromProperties(in.Properties())
	if err != nil {
		t.Fatalf("ConfigFromProperties failed: %v", err)
	}
	if out.Level != in.Level || out.Console != in.Console || out.File != in.File || out.Syslog != in.Syslog {
		t.Errorf("round trip changed config: %+v", out)
	}
	if len(out.Loggers) != 2 || out.Loggers["net"] != "trace" {
		t.Errorf("Loggers = %v", out.Loggers)
	}
}
