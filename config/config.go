// Package config loads todo's TOML configuration.
//
// Values are layered: built-in defaults, then the config file, then
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBaseURL    = "http://localhost:3000"
	DefaultTimeout    = 10 * time.Second
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultServerAddr = ":3000"
	DefaultShape      = "bare"
	appDir            = "todo"
	configFileName    = "config.toml"
	prefsFileName     = "prefs.json"
	logFileName       = "todo.log"
)

// Config is the full set of settings.
type Config struct {
	BaseURL   string       `toml:"base_url"`
	Timeout   Duration     `toml:"timeout"`
	PrefsFile string       `toml:"prefs_file"`
	Log       LogConfig    `toml:"log"`
	Server    ServerConfig `toml:"server"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives log output in TUI mode. Empty means the default state dir.
	File string `toml:"file"`
}

// ServerConfig controls `todo serve`.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	DataFile string `toml:"data_file"`
	// Shape is the GET /todos response shape: bare, data or todos.
	Shape string `toml:"shape"`
}

// Duration decodes TOML strings such as "5s" or "1m30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout.Duration = DefaultTimeout
	}
	if cfg.PrefsFile == "" {
		cfg.PrefsFile = filepath.Join(stateDir(), prefsFileName)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(stateDir(), logFileName)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Shape == "" {
		cfg.Server.Shape = DefaultShape
	}
}

// Load reads the config file at path. An empty path means DefaultPath; a
// missing file is not an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) || explicit {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	loadFromEnv(cfg)
	setDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Server.Shape {
	case "bare", "data", "todos":
	default:
		return fmt.Errorf("server.shape must be bare, data or todos, got %q", c.Server.Shape)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TODO_PREFS_FILE"); v != "" {
		cfg.PrefsFile = v
	}
}

// DefaultPath is $XDG_CONFIG_HOME/todo/config.toml or the OS equivalent.
func DefaultPath() string {
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, appDir, configFileName)
}

func userConfigDir() string {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

// stateDir holds preferences and logs: $XDG_STATE_HOME/todo, falling back to
// ~/.local/state/todo.
func stateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", appDir)
}
