package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	javaprops "github.com/magiconair/properties"
	"github.com/spf13/viper"

	"github.com/kbukum/loghub/errors"
	"github.com/kbukum/loghub/properties"
	"github.com/kbukum/loghub/util"
)

// EnvPrefixes lists the environment variable prefixes mapped to properties.
var EnvPrefixes = []string{"LH_", "LOGGER_SERVICE_"}

// DefaultConfigNames are searched for, in order, in every search path when
// no config file is given.
var DefaultConfigNames = []string{
	"loghub.properties",
	"loghub.yaml",
	"loghub.yml",
	"loghub.toml",
	"loghub.json",
}

// DefaultSearchPaths are the directories searched for config and .env files.
var DefaultSearchPaths = []string{".", "./config", "/etc/loghub"}

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files.
type Resolver struct {
	FileSystem  FileSystem
	SearchPaths []string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths from opts, searching for the ones
// that were not given.
func (r *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.find(DefaultConfigNames...)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.find(".env")
	}
	return resolved
}

func (r *Resolver) find(names ...string) string {
	for _, dir := range r.SearchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem  FileSystem
	ConfigFile  string // Direct config file path (optional)
	EnvFile     string // Direct env file path (optional)
	SearchPaths []string
	Overrides   *properties.Properties
}

// LoaderOption is a functional option for LoadProperties.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. A missing explicit file
// is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithSearchPaths replaces DefaultSearchPaths.
func WithSearchPaths(paths ...string) LoaderOption {
	return func(lc *LoaderConfig) { lc.SearchPaths = paths }
}

// WithOverrides applies p on top of the file and environment values.
func WithOverrides(p *properties.Properties) LoaderOption {
	return func(lc *LoaderConfig) { lc.Overrides = p }
}

// LoadProperties builds the property set from, in increasing precedence,
// the config file, the environment (after loading the .env file) and any
// overrides. Keys are lower case.
func LoadProperties(opts ...LoaderOption) (*properties.Properties, error) {
	lc := LoaderConfig{SearchPaths: DefaultSearchPaths}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return nil, fmt.Errorf("config file %s not found", lc.ConfigFile)
	}
	if lc.EnvFile != "" && !lc.FileSystem.Exists(lc.EnvFile) {
		return nil, fmt.Errorf("env file %s not found", lc.EnvFile)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem, SearchPaths: lc.SearchPaths}
	files := resolver.ResolveFiles(lc)

	v := viper.New()

	// 1. Config file first (base configuration)
	if files.ConfigFile != "" {
		if err := readConfigFile(v, files.ConfigFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", files.ConfigFile, err)
		}
	}

	// 2. .env file into the process environment
	if files.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", files.EnvFile, err)
		}
	}

	// 3. Environment overrides file values
	bindEnvVars(v, os.Environ())

	p := properties.New()
	keys := v.AllKeys()
	slices.Sort(keys)
	for _, key := range keys {
		p.Set(key, util.SanitizeValue(v.GetString(key)))
	}

	// 4. Explicit overrides win
	p.Merge(lc.Overrides)
	return p, nil
}

// readConfigFile reads path into v. Java properties files are decoded
// directly since viper no longer ships a codec for them; their values are
// registered as defaults so that the environment still overrides them.
func readConfigFile(v *viper.Viper, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties", ".props", ".prop":
		jp, err := javaprops.LoadFile(path, javaprops.UTF8)
		if err != nil {
			return err
		}
		for key, value := range jp.Map() {
			v.SetDefault(strings.ToLower(key), value)
		}
		return nil
	default:
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
}

// bindEnvVars sets every variable with a recognised prefix on v under its
// property key.
func bindEnvVars(v *viper.Viper, environ []string) {
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		key, ok := EnvKey(name)
		if !ok {
			continue
		}
		v.Set(key, value)
	}
}

// EnvKey maps an environment variable name to its property key:
// LH_CONSOLE_LEVEL becomes lh.console.level. It reports false for names
// without a recognised prefix.
func EnvKey(name string) (string, bool) {
	upper := strings.ToUpper(name)
	for _, prefix := range EnvPrefixes {
		if strings.HasPrefix(upper, prefix) && len(upper) > len(prefix) {
			return strings.ReplaceAll(strings.ToLower(name), "_", "."), true
		}
	}
	return "", false
}

// ParseAssignments parses key=value strings, as given on a command line,
// into properties. Later assignments win.
func ParseAssignments(assignments []string) (*properties.Properties, error) {
	p := properties.New()
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.InvalidConfigValue("assignment", a, "key=value")
		}
		p.Set(strings.ToLower(key), util.SanitizeValue(value))
	}
	return p, nil
}
