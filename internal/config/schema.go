package config

import "time"

// Config is the server and CLI configuration
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth,omitempty"`
	Import   ImportConfig   `yaml:"import,omitempty"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds the shared API token. TokenHash is a bcrypt hash and
// wins over Token when both are set.
type AuthConfig struct {
	Token     string `yaml:"token,omitempty"`
	TokenHash string `yaml:"token_hash,omitempty"`
}

// ImportConfig controls automatic re-import
type ImportConfig struct {
	// WatchPath is an export document re-imported whenever it changes
	WatchPath string `yaml:"watch_path,omitempty"`
	// Format of WatchPath: json, yaml or legacy
	Format   string   `yaml:"format,omitempty"`
	Debounce Duration `yaml:"debounce,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
