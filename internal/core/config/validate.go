package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/toast/internal/core/styles"
	"github.com/colonyops/toast/internal/core/toast"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("toast.default_duration", c.Toast.DefaultDuration, nonNegativeDuration),
		criterio.Run("toast.anchor", c.Toast.Anchor, validAnchor),
		criterio.Run("toast.max_visible", c.Toast.MaxVisible, nonNegativeInt),
		criterio.Run("tui.theme", c.TUI.Theme, knownTheme),
		criterio.Run("tui.width", c.TUI.Width, toastWidth),
	)
}

// ValidateDeep runs Validate and then checks that the config file, when
// given, is a readable regular file.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return validateConfigFile(configPath)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}

	f, err := os.Open(configPath)
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot read: %w", err))
	}
	_ = f.Close()

	return nil
}

func nonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func nonNegativeInt(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

func validAnchor(s string) error {
	_, err := toast.ParseAnchor(s)
	return err
}

func knownTheme(name string) error {
	names := styles.ThemeNames()
	if !slices.Contains(names, name) {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(names, ", "))
	}
	return nil
}

func toastWidth(w int) error {
	if w < MinToastWidth || w > MaxToastWidth {
		return fmt.Errorf("must be between %d and %d, got %d", MinToastWidth, MaxToastWidth, w)
	}
	return nil
}
