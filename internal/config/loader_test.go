package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	var cfg JumperConfig
	if err := yaml.Unmarshal(defaultJumperYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != DefaultJumperConfig() {
		t.Errorf("embedded yaml differs from DefaultJumperConfig():\n%+v\n%+v", cfg, DefaultJumperConfig())
	}
}

func TestDefaultsValid(t *testing.T) {
	if err := DefaultJumperConfig().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("physics:\n  gravity: 900\ncombo:\n  timeout: 3s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Gravity != 900 {
		t.Errorf("gravity = %v, want 900", cfg.Physics.Gravity)
	}
	if cfg.Combo.Timeout != 3*time.Second {
		t.Errorf("combo timeout = %v, want 3s", cfg.Combo.Timeout)
	}
	if cfg.Physics.JumpImpulse != -500 {
		t.Errorf("unset field lost its default: %v", cfg.Physics.JumpImpulse)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(bad, []byte("physics: [oops"), 0o644)                                          //nolint:errcheck
	os.WriteFile(invalid, []byte("world:\n  moving_below: 0.5\n  breakable_below: 0.2\n"), 0o644) //nolint:errcheck

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "nope.yaml")},
		{"malformed", bad},
		{"non-cumulative thresholds", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultJumperConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	os.MkdirAll(filepath.Join(dir, "configs"), 0o755) //nolint:errcheck
	data := []byte("world:\n  platform_spacing: 60\n")
	if err := os.WriteFile(filepath.Join(dir, "configs", configFile), data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.PlatformSpacing != 60 {
		t.Errorf("spacing = %v, want 60", cfg.World.PlatformSpacing)
	}
}
