package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load consults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvDBPath, EnvAPIToken, EnvAddr, "XDG_CONFIG_HOME"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Database.Path != DefaultDBPath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, DefaultDBPath)
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("Server.WriteTimeout = %s, want 0 for SSE", cfg.Server.WriteTimeout.Duration())
	}
	if cfg.Import.Format != "json" {
		t.Errorf("Import.Format = %s, want json", cfg.Import.Format)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be disabled by default")
	}
}

func TestLoadWithoutFileUsesDefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv(EnvDBPath, "/tmp/other.db")
	t.Setenv(EnvAPIToken, "tok")

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Database.Path = %s, want /tmp/other.db", cfg.Database.Path)
	}
	if cfg.Auth.Token != "tok" || !cfg.AuthEnabled() {
		t.Errorf("Auth = %+v, want token from env", cfg.Auth)
	}
}

func TestLoadFromPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
server:
  addr: 127.0.0.1:8080
  read_timeout: 5s
database:
  path: /var/lib/hanzi/hanzi.db
auth:
  token_hash: $2a$10$abcdefghijklmnopqrstuv
import:
  watch_path: /srv/export.json
`)

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration() != 5*time.Second {
		t.Errorf("ReadTimeout = %s, want 5s", cfg.Server.ReadTimeout.Duration())
	}
	if cfg.Server.ShutdownTimeout.Duration() != 10*time.Second {
		t.Errorf("ShutdownTimeout = %s, want default 10s", cfg.Server.ShutdownTimeout.Duration())
	}
	if cfg.Database.Path != "/var/lib/hanzi/hanzi.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if !cfg.AuthEnabled() {
		t.Error("token_hash should enable auth")
	}
	if cfg.Import.WatchPath != "/srv/export.json" || cfg.Import.Format != "json" {
		t.Errorf("Import = %+v", cfg.Import)
	}
	if cfg.Import.Debounce.Duration() != DefaultDebounce {
		t.Errorf("Debounce = %s, want %s", cfg.Import.Debounce.Duration(), DefaultDebounce)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "server:\n  addr: :9000\nauth:\n  token_hash: somehash\n")

	t.Setenv(EnvAddr, ":7000")
	t.Setenv(EnvAPIToken, "plain")

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %s, want :7000", cfg.Server.Addr)
	}
	if cfg.Auth.Token != "plain" || cfg.Auth.TokenHash != "" {
		t.Errorf("Auth = %+v, want env token replacing the hash", cfg.Auth)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "server: [unclosed"},
		{"bad duration", "server:\n  read_timeout: soon\n"},
		{"bad import format", "import:\n  format: csv\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(dir, tt.name+".yaml")
		writeFile(t, path, tt.content)
		if _, _, err := LoadFromPath(path); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	if _, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6000"
	cfg.Import.WatchPath = "/data/words.ndjson"
	cfg.Import.Format = "legacy"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Server.Addr != ":6000" {
		t.Errorf("Server.Addr = %s, want :6000", loaded.Server.Addr)
	}
	if loaded.Import.Format != "legacy" || loaded.Import.WatchPath != "/data/words.ndjson" {
		t.Errorf("Import = %+v", loaded.Import)
	}
}

func TestFindConfigPath(t *testing.T) {
	clearEnv(t)

	t.Run("none", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if found := FindConfigPath(); found != "" && found != filepath.Join("/etc", ConfigDirName, "config.yaml") {
			t.Errorf("FindConfigPath() = %s, want empty", found)
		}
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")
		t.Chdir(dir)

		found := FindConfigPath()
		if !filepath.IsAbs(found) || filepath.Base(found) != ConfigFileName {
			t.Errorf("FindConfigPath() = %s, want absolute %s", found, ConfigFileName)
		}
	})

	t.Run("env wins", func(t *testing.T) {
		dir := t.TempDir()
		explicit := filepath.Join(dir, "explicit.yaml")
		writeFile(t, explicit, "version: 1\n")
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")
		t.Chdir(dir)
		t.Setenv(EnvConfigPath, explicit)

		if found := FindConfigPath(); found != explicit {
			t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
		}
	})

	t.Run("missing env path falls back", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ConfigFileName), "version: 1\n")
		t.Chdir(dir)
		t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")

		if found := FindConfigPath(); found == "" {
			t.Error("FindConfigPath() should fall back when env path doesn't exist")
		}
	})

	t.Run("xdg", func(t *testing.T) {
		xdg := t.TempDir()
		want := filepath.Join(xdg, ConfigDirName, "config.yaml")
		writeFile(t, want, "version: 1\n")
		t.Chdir(t.TempDir())
		t.Setenv("XDG_CONFIG_HOME", xdg)

		if found := FindConfigPath(); found != want {
			t.Errorf("FindConfigPath() = %s, want %s", found, want)
		}
		if DefaultConfigPath() != want {
			t.Errorf("DefaultConfigPath() = %s, want %s", DefaultConfigPath(), want)
		}
	})
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
