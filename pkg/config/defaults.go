// Package config defines default settings and loads them through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Keys understood by Load. They double as flag names and, upper-cased with
// the LINEBLAME_ prefix, as environment variables.
const (
	KeyEnabled      = "enabled"
	KeyGitBinary    = "git_binary"
	KeyCacheSize    = "cache_size"
	KeyTimeout      = "timeout"
	KeyTimezone     = "timezone"
	KeyExclude      = "exclude"
	KeyWatch        = "watch"
	KeyLogFile      = "log_file"
	KeyJSONLogs     = "json_logs"
	KeyVerbose      = "verbose"
	KeyOTelEndpoint = "otel_endpoint"
	KeyNoTelemetry  = "no_telemetry"
)

// Defaults.
const (
	DefaultGitBinary = "git"
	DefaultCacheSize = 256
	DefaultTimezone  = "UTC"
	EnvPrefix        = "LINEBLAME"
)

// Config is the persisted configuration of a blame session.
type Config struct {
	// Enabled is the initial state of the blame toggle.
	Enabled bool `mapstructure:"enabled"`
	// GitBinary is the git executable, looked up on PATH when not absolute.
	GitBinary string `mapstructure:"git_binary"`
	// CacheSize bounds the number of files whose blame is kept in memory.
	CacheSize int `mapstructure:"cache_size"`
	// Timeout caps each git invocation. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
	// Timezone renders author dates. "UTC", "Local" or an IANA name.
	Timezone string `mapstructure:"timezone"`
	// Exclude is a CEL expression; matching records are not decorated.
	Exclude string `mapstructure:"exclude"`
	// Watch invalidates cached blame when a tracked file is written on disk.
	Watch bool `mapstructure:"watch"`

	LogFile  string `mapstructure:"log_file"`
	JSONLogs bool   `mapstructure:"json_logs"`
	Verbose  bool   `mapstructure:"verbose"`

	OTelEndpoint string `mapstructure:"otel_endpoint"`
	NoTelemetry  bool   `mapstructure:"no_telemetry"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Enabled:   true,
		GitBinary: DefaultGitBinary,
		CacheSize: DefaultCacheSize,
		Timezone:  DefaultTimezone,
		Watch:     true,
		JSONLogs:  true,
	}
}

// SetDefaults registers Default() on v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyEnabled, d.Enabled)
	v.SetDefault(KeyGitBinary, d.GitBinary)
	v.SetDefault(KeyCacheSize, d.CacheSize)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyTimezone, d.Timezone)
	v.SetDefault(KeyExclude, d.Exclude)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyJSONLogs, d.JSONLogs)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyOTelEndpoint, d.OTelEndpoint)
	v.SetDefault(KeyNoTelemetry, d.NoTelemetry)
}

// Load resolves a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the session cannot run with.
func (c Config) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.GitBinary == "" {
		return fmt.Errorf("git_binary must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
