// Package config loads balancebuddy settings from TOML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/balancebuddy/internal/pipeline"
)

const appName = "balancebuddy"

// Environment variables that override the config file.
const (
	EnvDataDir  = "BALANCEBUDDY_DATA_DIR"
	EnvLogLevel = "BALANCEBUDDY_LOG_LEVEL"
	EnvStorage  = "BALANCEBUDDY_STORAGE"
)

// Config holds all balancebuddy configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Alerts     AlertsConfig     `toml:"alerts"`
	Categories CategoriesConfig `toml:"categories"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds storage and display preferences.
type GeneralConfig struct {
	DataDir  string `toml:"data_dir,omitempty"`
	Storage  string `toml:"storage"`
	Currency string `toml:"currency"`
	LogLevel string `toml:"log_level"`
}

// AlertsConfig holds the dashboard warning thresholds.
type AlertsConfig struct {
	LowBalanceThreshold float64 `toml:"low_balance_threshold"`
	DueSoonDays         int     `toml:"due_soon_days"`
}

// CategoriesConfig lists categories offered next to the built-in ones.
type CategoriesConfig struct {
	Extra []string `toml:"extra,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Schedule     string `toml:"schedule"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Storage:  "sqlite",
			Currency: "$",
			LogLevel: "warn",
		},
		Alerts: AlertsConfig{
			LowBalanceThreshold: 500,
			DueSoonDays:         3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			Schedule:     "@every 5m",
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDataDir returns the XDG data directory used when none is configured.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file in the config dir or the working directory is loaded first,
// then BALANCEBUDDY_* variables override the file.
func Load() (Config, error) {
	cfg := DefaultConfig()
	loadDotEnv()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDotEnv never overrides variables already set in the process.
func loadDotEnv() {
	for _, p := range []string{filepath.Join(ConfigDir(), ".env"), ".env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.General.Storage = strings.ToLower(v)
	}
}

// Validate rejects settings the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.General.Storage {
	case "sqlite", "json":
	default:
		return fmt.Errorf("config: storage must be sqlite or json, got %q", c.General.Storage)
	}
	if c.Alerts.LowBalanceThreshold < 0 {
		return errors.New("config: low_balance_threshold must not be negative")
	}
	if c.Alerts.DueSoonDays < 0 {
		return errors.New("config: due_soon_days must not be negative")
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// DataDir returns the configured data directory or the XDG default.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// PipelineOptions converts the alert thresholds for the derivation engine.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		LowBalanceThreshold: decimal.NewFromFloat(c.Alerts.LowBalanceThreshold),
		DueSoonDays:         c.Alerts.DueSoonDays,
	}
}
