// Package config handles the persisted geoscope preferences.
//
// Exactly one preference survives across sessions: the theme choice. It lives
// in a yaml file under the XDG config directory:
//
//	~/.config/geoscope/config.yaml
//
// Dataset contents are never persisted here; the dataset is reloaded from its
// source every session.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk preference file.
type Config struct {
	// DarkMode is the explicit theme preference. Nil means "no preference":
	// the terminal's ambient background signal decides, falling back to
	// light.
	DarkMode *bool `yaml:"dark_mode,omitempty"`
}

// DefaultConfig returns a Config with no explicit preference.
func DefaultConfig() Config {
	return Config{}
}

// ConfigDir returns the XDG config directory for geoscope.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "geoscope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "geoscope")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. A missing or malformed file is
// treated as "no preference" rather than an error: the theme falls back to
// the ambient signal.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory, creating it if needed.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	return SaveTo(path, cfg)
}

// SaveTo writes config to a specific path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveDarkMode returns the effective theme flag. An explicit preference
// wins; otherwise the ambient signal (terminal background detection) decides.
func (c Config) ResolveDarkMode(ambient func() bool) bool {
	if c.DarkMode != nil {
		return *c.DarkMode
	}
	if ambient != nil {
		return ambient()
	}
	return false
}
