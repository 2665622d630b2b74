package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable pointing at a config file.
const EnvConfig = "RESOLVECONV_CONFIG"

// ErrNotFound means no config file exists in any searched location.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./resolveconv.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "resolveconv", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. RESOLVECONV_CONFIG environment variable
//  2. ./resolveconv.toml (current directory)
//  3. $XDG_CONFIG_HOME/resolveconv/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./resolveconv.toml",
		DefaultPath(),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}
