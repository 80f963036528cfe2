// Package config handles the global texbib configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/texbib/config.yml.
// Environment variables (ADS_API_KEY, S2_API_KEY) take precedence over the
// key fields here; command-line flags take precedence over everything.
type Config struct {
	ADSAPIKey       string `yaml:"ads_api_key,omitempty"`
	S2APIKey        string `yaml:"s2_api_key,omitempty"`
	PreferredSource string `yaml:"preferred_source,omitempty"` // ads, inspire, s2, auto
	MaxAuthors      int    `yaml:"max_authors,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty"`
	LibraryPath     string `yaml:"library_path,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "texbib"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultSource is used when preferred_source is unset.
	DefaultSource = "ads"
	// DefaultConcurrency is the resolution worker count when unset.
	// Kept small: bibliographic APIs rate-limit per client.
	DefaultConcurrency = 4
)

// cache holds the loaded config for the process lifetime.
var cache *Config

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/texbib/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load loads the global configuration file. Returns an empty config (not an
// error) if the file doesn't exist.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandTilde(cfg.LibraryPath)
	}

	cache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	cache = nil
}

// Save writes the configuration to the global config file, creating the
// config directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ADSKey returns the ADS API key, preferring the environment variable.
func (c *Config) ADSKey() string {
	if key := os.Getenv("ADS_API_KEY"); key != "" {
		return key
	}
	return c.ADSAPIKey
}

// S2Key returns the Semantic Scholar API key, preferring the environment
// variable.
func (c *Config) S2Key() string {
	if key := os.Getenv("S2_API_KEY"); key != "" {
		return key
	}
	return c.S2APIKey
}

// Source returns the preferred source, falling back to the default.
func (c *Config) Source() string {
	if c.PreferredSource != "" {
		return c.PreferredSource
	}
	return DefaultSource
}

// Workers returns the resolution concurrency, falling back to the default.
func (c *Config) Workers() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}

// ExpandTilde expands a leading ~ to the user's home directory. The path is
// returned unchanged if it doesn't start with ~ or the home directory is
// unknown.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
