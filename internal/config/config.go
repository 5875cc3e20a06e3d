// Package config loads server configuration from an optional YAML file.
// Flags layered on top by cmd/flatdb take precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "500ms"
// or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// RateLimit configures the per-IP token bucket. Zero requests per
// minute disables limiting.
type RateLimit struct {
	RequestsPerMin int `yaml:"requests_per_min"`
	Burst          int `yaml:"burst"`
}

// Config holds all server settings.
type Config struct {
	// Addr is the listen address, e.g. "localhost:8080".
	Addr string `yaml:"addr"`
	// Source is the delimited file to serve.
	Source string `yaml:"source"`
	// Delimiter overrides extension-based detection. One character,
	// e.g. ";" for semicolon-separated files.
	Delimiter string `yaml:"delimiter"`
	// Watch enables reloading when the source file changes.
	Watch bool `yaml:"watch"`
	// StabilityWindow is the quiet period after a file change before it
	// is treated as settled.
	StabilityWindow Duration `yaml:"stability_window"`
	// DefaultLimit is the page size when the request does not name one.
	DefaultLimit int `yaml:"default_limit"`
	// MaxLimit caps the requested page size. Zero means no cap.
	MaxLimit int `yaml:"max_limit"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel  string    `yaml:"log_level"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

// Default returns the configuration used when no file and no flags are
// given.
func Default() Config {
	return Config{
		Addr:            "localhost:8080",
		Watch:           true,
		StabilityWindow: Duration(250 * time.Millisecond),
		DefaultLimit:    10,
		MaxLimit:        1000,
		LogLevel:        "info",
		RateLimit:       RateLimit{RequestsPerMin: 6000, Burst: 100},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges and consistency.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source file is required")
	}
	if len([]rune(c.Delimiter)) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.DefaultLimit < 1 {
		return errors.New("default_limit must be at least 1")
	}
	if c.MaxLimit < 0 {
		return errors.New("max_limit must be non-negative")
	}
	if c.MaxLimit > 0 && c.DefaultLimit > c.MaxLimit {
		return errors.New("default_limit must not exceed max_limit")
	}
	if c.RateLimit.RequestsPerMin < 0 {
		return errors.New("rate_limit.requests_per_min must be non-negative")
	}
	if c.RateLimit.Burst < 0 {
		return errors.New("rate_limit.burst must be non-negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// DelimiterRune returns the configured delimiter as a rune, or 0 when
// unset (detection by extension applies).
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}
