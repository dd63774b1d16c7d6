// Package config loads persistent defaults for sheetscrub from
// ~/.config/sheetscrub/config.toml.
//
// The config file only provides defaults; flags given on the command line
// always win. A missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultsConfig holds default values for the sanitize flags.
type DefaultsConfig struct {
	RemoveMacros       bool `toml:"remove_macros"`
	RemoveHiddenSheets bool `toml:"remove_hidden_sheets"`
	Overwrite          bool `toml:"overwrite"`
}

// LogConfig holds default values for the output flags.
type LogConfig struct {
	Verbose bool `toml:"verbose"`
	Quiet   bool `toml:"quiet"`
}

// Config holds the sheetscrub configuration.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the built-in configuration: everything off, matching the
// CLI flag defaults.
func Default() Config {
	return Config{}
}

// configPath returns the path to the config file
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sheetscrub", "config.toml"), nil
}

// Load reads config from ~/.config/sheetscrub/config.toml.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from an explicit path. Used by Load and by tests.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Log.Verbose && cfg.Log.Quiet {
		return Default(), fmt.Errorf("config file sets both log.verbose and log.quiet")
	}
	return cfg, nil
}
