package config

import (
	"os"
	"path/filepath"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaultConfig_NoPreference(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DarkMode != nil {
		t.Error("default config should carry no explicit preference")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DarkMode != nil {
		t.Error("missing file should yield no preference")
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("dark_mode: [not a bool"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("malformed file must not error, got: %v", err)
	}
	if cfg.DarkMode != nil {
		t.Error("malformed file should yield no preference")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	if err := SaveTo(path, Config{DarkMode: boolPtr(true)}); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.DarkMode == nil || !*cfg.DarkMode {
		t.Errorf("round-trip lost preference: %+v", cfg)
	}
}

func TestResolveDarkMode(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		ambient func() bool
		want    bool
	}{
		{"explicit dark wins over ambient light", Config{DarkMode: boolPtr(true)}, func() bool { return false }, true},
		{"explicit light wins over ambient dark", Config{DarkMode: boolPtr(false)}, func() bool { return true }, false},
		{"no preference follows ambient", Config{}, func() bool { return true }, true},
		{"no preference, no ambient: light", Config{}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveDarkMode(tt.ambient); got != tt.want {
				t.Errorf("ResolveDarkMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
