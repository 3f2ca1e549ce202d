// Package config loads kcc settings from a TOML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"kcc/pkg/version"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "KCC_CONFIG"

// DefaultFile is looked up in the working directory when EnvVar is unset.
const DefaultFile = "kcc.toml"

// Config holds the complete kcc configuration
type Config struct {
	General     GeneralConfig     `toml:"general"`
	Compiler    CompilerConfig    `toml:"compiler"`
	Dump        DumpConfig        `toml:"dump"`
	Watch       WatchConfig       `toml:"watch"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// GeneralConfig holds logging settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
	LogFormat string `toml:"log_format"` // text, json
}

// CompilerConfig holds settings passed to every compilation
type CompilerConfig struct {
	Flags          uint32 `toml:"flags"`
	OutputDir      string `toml:"output_dir"`
	RequireVersion string `toml:"require_version"`
	Jobs           int    `toml:"jobs"`
}

// DumpConfig holds settings for the tokens and ast commands
type DumpConfig struct {
	Format string `toml:"format"` // text, yaml
}

// WatchConfig holds settings for the watch command
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// DiagnosticsConfig holds settings for error and warning output
type DiagnosticsConfig struct {
	Color string `toml:"color"` // auto, never
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by KCC_CONFIG, or kcc.toml in the working
// directory. Without either it returns the defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.Compiler.Jobs <= 0 {
		c.Compiler.Jobs = runtime.NumCPU()
	}
	if c.Dump.Format == "" {
		c.Dump.Format = "text"
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}
	if c.Diagnostics.Color == "" {
		c.Diagnostics.Color = "auto"
	}
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// Validate checks enumerated fields and the required kcc version.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.General.LogLevel); err != nil {
		return err
	}
	if err := oneOf("general.log_format", c.General.LogFormat, "text", "json"); err != nil {
		return err
	}
	if err := oneOf("dump.format", c.Dump.Format, "text", "yaml"); err != nil {
		return err
	}
	if err := oneOf("diagnostics.color", c.Diagnostics.Color, "auto", "never"); err != nil {
		return err
	}
	if c.Compiler.RequireVersion != "" {
		ok, err := version.Satisfies(c.Compiler.RequireVersion)
		if err != nil {
			return fmt.Errorf("compiler.require_version: %w", err)
		}
		if !ok {
			return fmt.Errorf("kcc %s does not satisfy compiler.require_version %q", version.Version, c.Compiler.RequireVersion)
		}
	}
	return nil
}

// ParseLevel converts a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("general.log_level: %w", err)
	}
	return l, nil
}

// OutputPath returns where the output for source goes: defaultPath, moved
// into Compiler.OutputDir when one is set.
func (c *Config) OutputPath(defaultPath string) string {
	if c.Compiler.OutputDir == "" {
		return defaultPath
	}
	return filepath.Join(c.Compiler.OutputDir, filepath.Base(defaultPath))
}
