package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TODO_BASE_URL", "TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_PREFS_FILE"} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Default()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout.Duration != DefaultTimeout {
		t.Errorf("Timeout: got %v, want %v", cfg.Timeout.Duration, DefaultTimeout)
	}
	if cfg.Server.Shape != "bare" {
		t.Errorf("Shape: got %q, want bare", cfg.Server.Shape)
	}
	if filepath.Base(cfg.PrefsFile) != "prefs.json" {
		t.Errorf("PrefsFile: got %q", cfg.PrefsFile)
	}
}

func TestLoadMissingDefaultFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want default", cfg.BaseURL)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_url = "http://todo.internal:8080"
timeout = "3s"

[log]
level = "debug"
format = "json"

[server]
addr = "127.0.0.1:4000"
shape = "todos"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://todo.internal:8080" {
		t.Errorf("BaseURL: got %q", cfg.BaseURL)
	}
	if cfg.Timeout.Duration != 3*time.Second {
		t.Errorf("Timeout: got %v", cfg.Timeout.Duration)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log: got %+v", cfg.Log)
	}
	if cfg.Server.Addr != "127.0.0.1:4000" || cfg.Server.Shape != "todos" {
		t.Errorf("Server: got %+v", cfg.Server)
	}
	if cfg.Log.File == "" {
		t.Errorf("expected default log file to be filled in")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `base_url = "http://from-file:1"`+"\n[log]\nlevel = \"warn\"\n")
	t.Setenv("TODO_BASE_URL", "http://from-env:2")
	t.Setenv("TODO_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://from-env:2" {
		t.Errorf("BaseURL: got %q, want env value", cfg.BaseURL)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level: got %q, want env value", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `base_url = "https://example.com"`, false},
		{"bad shape", "[server]\nshape = \"items\"", true},
		{"bad url", `base_url = "localhost:3000"`, true},
		{"bad timeout", `timeout = "soon"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load: got err %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME is not consulted on " + runtime.GOOS)
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	want := filepath.Join(dir, "todo", "config.toml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath: got %q, want %q", got, want)
	}
}
