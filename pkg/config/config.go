// Package config handles loading and saving mdo configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/mdo/config.yaml
//   - State:  ~/.local/state/mdo/ (per-file view state cache)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UIConfig holds viewer preference settings.
type UIConfig struct {
	DefaultMode string `yaml:"default_mode,omitempty"` // raw or rendered
	WordWrap    int    `yaml:"word_wrap,omitempty"`    // rendered-mode wrap column
	Mouse       *bool  `yaml:"mouse,omitempty"`        // mouse support (default on)
}

// TrackerConfig tunes the reading-position tracker.
type TrackerConfig struct {
	DebounceMS    int `yaml:"debounce_ms,omitempty"`     // edit/resize coalescing window
	TopThreshold  int `yaml:"top_threshold,omitempty"`   // rows from top that force-select the first entry
	CompactMinGap int `yaml:"compact_min_gap,omitempty"` // columns needed beside content for the normal panel
	PanelWidth    int `yaml:"panel_width,omitempty"`     // outline panel width in columns
}

// Config is the top-level configuration for mdo.
type Config struct {
	UI      UIConfig      `yaml:"ui,omitempty"`
	Tracker TrackerConfig `yaml:"tracker,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			DefaultMode: "rendered",
			WordWrap:    80,
		},
		Tracker: TrackerConfig{
			DebounceMS:    100,
			TopThreshold:  2,
			CompactMinGap: 34,
			PanelWidth:    30,
		},
	}
}

// Debounce returns the edit/resize debounce window as a duration.
func (c Config) Debounce() time.Duration {
	if c.Tracker.DebounceMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Tracker.DebounceMS) * time.Millisecond
}

// MouseEnabled reports whether mouse support should be enabled.
func (c Config) MouseEnabled() bool {
	if c.UI.Mouse == nil {
		return true
	}
	return *c.UI.Mouse
}

// ConfigDir returns the XDG config directory for mdo.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mdo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mdo")
}

// StateDir returns the XDG state directory for mdo.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mdo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "mdo")
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

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
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
