package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/toast/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// ProfilerPort enables the debug server for the demo when > 0.
	ProfilerPort int

	// Config is read in the Before hook. It has defaults applied but is
	// not yet validated; commands that need a usable config call
	// ValidConfig.
	Config *config.Config
}

// ValidConfig returns the loaded config, or an error if it fails
// validation.
func (f *Flags) ValidConfig() (*config.Config, error) {
	if f.Config == nil {
		cfg := config.DefaultConfig()
		f.Config = &cfg
	}
	if err := f.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return f.Config, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toast", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/toast/toast.log
// On Linux: $XDG_STATE_HOME/toast/toast.log (defaults to ~/.local/state/toast/toast.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "toast", "toast.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "toast", "toast.log")
	}

	return filepath.Join(home, ".local", "state", "toast", "toast.log")
}
