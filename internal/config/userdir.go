package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// UserConfigDir returns the per-user config directory for history and
// run templates per §6.4: %APPDATA%/tools/cleaner on Windows,
// $XDG_CONFIG_HOME/cleaner on Linux (falling back to
// $HOME/.config/cleaner). It is created on first use.
func UserConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", os.ErrNotExist
		}
		dir = filepath.Join(appData, "tools", "cleaner")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "cleaner")
		} else {
			dir = filepath.Join(os.Getenv("HOME"), ".config", "cleaner")
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
