// Package config loads and validates engine configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use values like "30m".
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "90s" or "1h30m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds engine-wide settings. All fields have working defaults;
// a config file only needs to name what it overrides.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// DefaultPolicy is the quiz policy used when the caller does not
	// specify one: random, weakness-weighted, or category-locked.
	DefaultPolicy string `yaml:"default_policy"`

	// IdleTimeout is how long a quiz session may sit untouched before
	// the session manager reaps it.
	IdleTimeout Duration `yaml:"idle_timeout"`

	// StripMarkdown controls whether inline markdown markers are
	// removed from question prompts during extraction.
	StripMarkdown bool `yaml:"strip_markdown"`

	// ExtraStopwords are appended to the built-in stopword list used
	// for tag derivation.
	ExtraStopwords []string `yaml:"extra_stopwords"`

	// SnapshotKeep is how many persisted index snapshots to retain.
	SnapshotKeep int `yaml:"snapshot_keep"`
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		DefaultPolicy: "random",
		IdleTimeout:   Duration(30 * time.Minute),
		StripMarkdown: true,
		SnapshotKeep:  3,
	}
}

// Load reads a YAML config file, applying defaults for absent fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cfg for values the engine cannot run with.
func Validate(cfg Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}

	switch cfg.DefaultPolicy {
	case "random", "weakness-weighted", "category-locked":
	default:
		return fmt.Errorf("invalid default_policy %q", cfg.DefaultPolicy)
	}

	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive, got %s", cfg.IdleTimeout.Std())
	}
	if cfg.SnapshotKeep < 1 {
		return fmt.Errorf("snapshot_keep must be at least 1, got %d", cfg.SnapshotKeep)
	}
	return nil
}
