// Package config loads the desktop-text configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that can be set in the configuration file.
// Command-line flags override them.
type Config struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	DragDuration time.Duration `yaml:"drag_duration"`
	TypeDelayMs  int           `yaml:"type_delay_ms"`
	Output       string        `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PollInterval: 10 * time.Millisecond,
		LogLevel:     "info",
		LogFormat:    "text",
		DragDuration: 100 * time.Millisecond,
		TypeDelayMs:  0,
		Output:       "yaml",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/desktop-text/config.yaml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate config directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "desktop-text", "config.yaml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if c.DragDuration < 0 {
		return fmt.Errorf("drag_duration must not be negative, got %s", c.DragDuration)
	}
	if c.TypeDelayMs < 0 {
		return fmt.Errorf("type_delay_ms must not be negative, got %d", c.TypeDelayMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (use text or json)", c.LogFormat)
	}
	switch c.Output {
	case "yaml", "json":
	default:
		return fmt.Errorf("unknown output %q (use yaml or json)", c.Output)
	}
	return nil
}
