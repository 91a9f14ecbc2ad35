package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("poll_interval: 25ms\nlog_level: debug\ntype_delay_ms: 5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.PollInterval != 25*time.Millisecond {
		t.Errorf("poll_interval = %s, want 25ms", cfg.PollInterval)
	}
	if cfg.LogLevel != "debug" || cfg.TypeDelayMs != 5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.DragDuration != 100*time.Millisecond || cfg.LogFormat != "text" || cfg.Output != "yaml" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero poll interval", "poll_interval: 0s", "poll_interval"},
		{"negative drag", "drag_duration: -1s", "drag_duration"},
		{"negative delay", "type_delay_ms: -3", "type_delay_ms"},
		{"log level", "log_level: verbose", "log_level"},
		{"log format", "log_format: xml", "log_format"},
		{"output", "output: agent", "output"},
		{"malformed", "poll_interval: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("log_format = %q, want json", cfg.LogFormat)
	}
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoad_DefaultPathMayBeMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "desktop-text"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "desktop-text", "config.yaml"), []byte("output: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "json" {
		t.Errorf("output = %q, want json", cfg.Output)
	}
}
