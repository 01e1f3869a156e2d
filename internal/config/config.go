// Package config loads and saves the hburn TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all hburn configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	SkipInvalid bool   `toml:"skip_invalid"`
	UserName    string `toml:"user_name,omitempty"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr          string `toml:"addr"`
	IntervalSec   int    `toml:"interval_sec"`
	EventsBuffer  int    `toml:"events_buffer"`
	RatePerMinute int    `toml:"rate_per_minute"`
	Burst         int    `toml:"burst"`

	// WatchDir, when set, is an inbox of CSV/JSONL exports imported on change.
	WatchDir string `toml:"watch_dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Daemon: DaemonConfig{
			Addr:          "127.0.0.1:8787",
			IntervalSec:   30,
			EventsBuffer:  200,
			RatePerMinute: 120,
			Burst:         20,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
	}
}

// Interval returns the daemon polling interval.
func (d DaemonConfig) Interval() time.Duration {
	return time.Duration(d.IntervalSec) * time.Second
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hburn")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "hburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "hburn")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetDBPath returns the database path from env var, config, or the default, in that order.
func GetDBPath(cfg Config) string {
	if p := os.Getenv("HBURN_DB"); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return DefaultDBPath()
}

// DefaultDBPath is the database location used when nothing else is configured.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "hburn.db")
}

// GetDaemonAddr returns the daemon listen address from env var or config.
func GetDaemonAddr(cfg Config) string {
	if addr := os.Getenv("HBURN_ADDR"); addr != "" {
		return addr
	}
	return cfg.Daemon.Addr
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
