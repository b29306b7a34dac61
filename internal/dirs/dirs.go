// Package dirs resolves per-user directories for subextract.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "subextract"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the directory searched for config.{yaml,toml,json}.
//   - Linux: $XDG_CONFIG_HOME/subextract or ~/.config/subextract
//   - macOS: ~/Library/Application Support/subextract
//   - Windows: %AppData%/subextract
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config", "")
}

// StateDir holds run logs and the run lock.
//   - Linux: $XDG_STATE_HOME/subextract or ~/.local/state/subextract
//   - macOS: ~/Library/Application Support/subextract/state
//   - Windows: %LocalAppData%/subextract/state
func StateDir() (string, error) {
	if runtime.GOOS == "windows" {
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, appName, "state"), nil
		}
	}
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"), "state")
}

// resolve applies the XDG variable and home fallback on Linux, and the
// platform config dir elsewhere with an optional sub directory.
func resolve(xdgVar, homeRel, sub string) (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv(xdgVar); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, appName), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName, sub), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, appName, sub), nil
	}
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures the config and state dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, StateDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
