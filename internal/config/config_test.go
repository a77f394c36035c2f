package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Hotkey != "ctrl+shift+[" {
		t.Fatalf("default hotkey: got %q", cfg.Hotkey)
	}
	if cfg.API.Enabled {
		t.Fatal("control API must be disabled by default")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty hotkey", func(c *Config) { c.Hotkey = "" }},
		{"zero width", func(c *Config) { c.Frame.Geometry.Width = 0 }},
		{"negative height", func(c *Config) { c.Frame.Geometry.Height = -10 }},
		{"opacity above one", func(c *Config) { c.Frame.AlignmentOpacity = 1.5 }},
		{"negative opacity", func(c *Config) { c.Frame.AlignmentOpacity = -0.1 }},
		{"bad api port", func(c *Config) { c.API.Enabled = true; c.API.Port = 0 }},
	}

	for _, tc := range cases {
		cfg := Defaults()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestManagerCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := m.Get()
	if cfg.Hotkey != "ctrl+shift+[" {
		t.Fatalf("hotkey: got %q", cfg.Hotkey)
	}
	if cfg.Frame.Geometry.Width != 800 || cfg.Frame.Geometry.Height != 600 {
		t.Fatalf("frame geometry: got %+v", cfg.Frame.Geometry)
	}
}

func TestManagerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.GetViper().Set("hotkey", "ctrl+alt+s")
	m.GetViper().Set("frame.geometry.x", 250)
	if err := m.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// A fresh manager reads the persisted values back.
	m2, err := NewManager(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := m2.Get()
	if cfg.Hotkey != "ctrl+alt+s" {
		t.Fatalf("hotkey: got %q, want %q", cfg.Hotkey, "ctrl+alt+s")
	}
	if cfg.Frame.Geometry.X != 250 {
		t.Fatalf("frame x: got %d, want 250", cfg.Frame.Geometry.X)
	}
	// Untouched fields keep their defaults.
	if cfg.Frame.Geometry.Height != 600 {
		t.Fatalf("frame height: got %d, want 600", cfg.Frame.Geometry.Height)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.GetViper().Set("frame.alignment_opacity", 2.0)
	if err := m.Save(); err == nil {
		t.Fatal("expected validation error on save")
	}
}

func TestManagerRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hotkey: \"\"\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := NewManager(path); err == nil {
		t.Fatal("expected error for invalid config file")
	}
}
