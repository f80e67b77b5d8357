// Package config handles loading and saving wikinav configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/wikinav/config.yaml
//   - State:  ~/.local/state/wikinav/ (persisted tree state)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIConfig holds UI preference settings.
type UIConfig struct {
	ShowCounts  *bool `yaml:"show_counts,omitempty"`  // Descendant counts on branch nodes (default on)
	AutoExpand  bool  `yaml:"auto_expand,omitempty"`  // Expand ancestors of the current page on startup
	LiveReload  *bool `yaml:"live_reload,omitempty"`  // Watch the catalog source for changes (default on)
}

// Config is the top-level configuration for wikinav.
type Config struct {
	// CollapsedSections lists section names that start collapsed when no
	// persisted state says otherwise. Persisted toggles always win.
	CollapsedSections []string `yaml:"collapsed_sections"`

	// StateDir overrides the XDG state directory for persisted tree state.
	StateDir string `yaml:"state_dir,omitempty"`

	UI UIConfig `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults. The
// Regression-Testing section starts collapsed; it exists in most catalogs
// purely as a dumping ground for generated test pages.
func DefaultConfig() Config {
	return Config{
		CollapsedSections: []string{"Regression-Testing"},
	}
}

// ShowCounts resolves the optional show_counts setting (default true).
func (c Config) ShowCounts() bool {
	if c.UI.ShowCounts == nil {
		return true
	}
	return *c.UI.ShowCounts
}

// LiveReload resolves the optional live_reload setting (default true).
func (c Config) LiveReload() bool {
	if c.UI.LiveReload == nil {
		return true
	}
	return *c.UI.LiveReload
}

// ConfigDir returns the XDG config directory for wikinav.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "wikinav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wikinav")
}

// StateDir returns the XDG state directory for wikinav.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wikinav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "wikinav")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// ResolvedStateDir returns the configured state directory, falling back to
// the XDG default.
func (c Config) ResolvedStateDir() string {
	if c.StateDir != "" {
		return expandHome(c.StateDir)
	}
	return StateDir()
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

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
