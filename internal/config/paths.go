package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "HANZI_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "hanzi.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "hanzi"
)

// candidatePaths lists config locations in priority order.
func candidatePaths() []string {
	var paths []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, ConfigFileName)
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing config file in the order
// listed in the package doc, or "" if there is none
func FindConfigPath() string {
	for _, path := range candidatePaths() {
		if !fileExists(path) {
			continue
		}
		if path == ConfigFileName {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
		}
		return path
	}
	return ""
}

// DefaultConfigPath returns the preferred location for a new config file
func DefaultConfigPath() string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
