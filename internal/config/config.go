// Package config loads server and CLI configuration.
//
// Config file locations (priority order):
//  1. $HANZI_CONFIG
//  2. ./hanzi.yaml
//  3. $XDG_CONFIG_HOME/hanzi/config.yaml
//  4. ~/.config/hanzi/config.yaml
//  5. /etc/hanzi/config.yaml
//
// Environment variables override the file: DB_PATH, API_TOKEN and
// HANZI_ADDR.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvDBPath   = "DB_PATH"
	EnvAPIToken = "API_TOKEN"
	EnvAddr     = "HANZI_ADDR"
)

// Defaults
const (
	DefaultAddr     = ":5000"
	DefaultDBPath   = "hanzi.db"
	DefaultDebounce = 500 * time.Millisecond
)

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied either way.
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(15 * time.Second)
	}
	// Zero write timeout keeps SSE streams open.
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Import.Format == "" {
		c.Import.Format = "json"
	}
	if c.Import.Debounce == 0 {
		c.Import.Debounce = Duration(DefaultDebounce)
	}
}

// applyEnv lets environment variables override file values
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.Auth.Token = v
		c.Auth.TokenHash = ""
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that defaults cannot fix
func (c *Config) Validate() error {
	switch c.Import.Format {
	case "json", "yaml", "legacy":
	default:
		return fmt.Errorf("invalid import.format %q: must be json, yaml or legacy", c.Import.Format)
	}
	return nil
}

// AuthEnabled reports whether requests must carry a token
func (c *Config) AuthEnabled() bool {
	return c.Auth.Token != "" || c.Auth.TokenHash != ""
}

// Summary returns a one-line description for the startup log
func (c *Config) Summary() string {
	summary := fmt.Sprintf("addr=%s db=%s auth=%t", c.Server.Addr, c.Database.Path, c.AuthEnabled())
	if c.Import.WatchPath != "" {
		summary += fmt.Sprintf(" watch=%s(%s)", c.Import.WatchPath, c.Import.Format)
	}
	return summary
}
