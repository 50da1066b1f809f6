// Package config handles configuration loading and validation for toast.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/toast/internal/core/styles"
	"github.com/colonyops/toast/internal/core/toast"
)

// Config holds the application configuration.
type Config struct {
	Toast ToastConfig `yaml:"toast"`
	TUI   TUIConfig   `yaml:"tui"`
}

// ToastConfig holds settings passed to the toast manager.
type ToastConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration"` // lifetime for Success/Error/... helpers, 0 = persistent
	Anchor          string        `yaml:"anchor"`           // top or bottom
	MaxVisible      int           `yaml:"max_visible"`      // 0 = unlimited
}

// TUIConfig holds settings for the terminal renderer.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	Width int    `yaml:"width"` // toast width in cells
}

// Toast width limits in terminal cells.
const (
	MinToastWidth = 20
	MaxToastWidth = 200
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toast: ToastConfig{
			DefaultDuration: toast.DefaultDuration,
			Anchor:          string(toast.AnchorBottom),
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
			Width: 50,
		},
	}
}

// Load reads configuration from the given path and validates it. If
// configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses the config file and applies defaults without validating.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in values a config file may have blanked.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toast.Anchor == "" {
		c.Toast.Anchor = defaults.Toast.Anchor
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Width == 0 {
		c.TUI.Width = defaults.TUI.Width
	}
}

// AnchorValue returns the parsed anchor, falling back to bottom. Validate
// reports unparseable values.
func (c ToastConfig) AnchorValue() toast.Anchor {
	a, err := toast.ParseAnchor(c.Anchor)
	if err != nil {
		return toast.AnchorBottom
	}
	return a
}

// ManagerOptions converts the toast settings into manager options.
func (c ToastConfig) ManagerOptions() []toast.Option {
	return []toast.Option{
		toast.WithDefaultDuration(c.DefaultDuration),
		toast.WithAnchor(c.AnchorValue()),
		toast.WithMaxVisible(c.MaxVisible),
	}
}

// Palette returns the configured theme palette, or the default one.
func (c TUIConfig) Palette() styles.Palette {
	if p, ok := styles.GetPalette(c.Theme); ok {
		return p
	}
	p, _ := styles.GetPalette(styles.DefaultTheme)
	return p
}
