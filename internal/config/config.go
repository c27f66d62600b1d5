package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: WORKWELL_IDLE__RESET_AFTER_SECONDS=600.
const EnvPrefix = "WORKWELL_"

// Config is the runtime configuration of the application, separate from
// the user's reminder preferences.
type Config struct {
	DataDir         string `koanf:"data_dir"`
	Database        string `koanf:"database"`
	PreferencesFile string `koanf:"preferences_file"`
	Autostart       bool   `koanf:"autostart"`
	// WatchPreferences reloads preferences.yaml when it is edited by hand.
	WatchPreferences bool       `koanf:"watch_preferences"`
	EventBuffer      int        `koanf:"event_buffer"`
	Idle             IdleConfig `koanf:"idle"`
}

type IdleConfig struct {
	Enabled              bool `koanf:"enabled"`
	ResetAfterSeconds    int  `koanf:"reset_after_seconds"`
	CheckIntervalSeconds int  `koanf:"check_interval_seconds"`
}

// ResetAfter returns the idle time after which schedules restart.
func (idle IdleConfig) ResetAfter() time.Duration {
	return time.Duration(idle.ResetAfterSeconds) * time.Second
}

// CheckInterval returns the idle polling period.
func (idle IdleConfig) CheckInterval() time.Duration {
	return time.Duration(idle.CheckIntervalSeconds) * time.Second
}

// Load layers defaults, the optional YAML file at configPath and the
// environment. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return &cfg, nil
}

func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(name, "__", ".")
}

func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if c.PreferencesFile == "" {
		return fmt.Errorf("preferences_file is required")
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("event_buffer must be positive")
	}
	if c.Idle.Enabled {
		if c.Idle.ResetAfterSeconds <= 0 {
			return fmt.Errorf("idle.reset_after_seconds must be positive")
		}
		if c.Idle.CheckIntervalSeconds <= 0 {
			return fmt.Errorf("idle.check_interval_seconds must be positive")
		}
	}
	return nil
}

// DatabasePath resolves the event log location against DataDir.
func (c *Config) DatabasePath() string {
	return c.resolve(c.Database)
}

// PreferencesPath resolves the preferences file location against DataDir.
func (c *Config) PreferencesPath() string {
	return c.resolve(c.PreferencesFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// DefaultDataDir is <user config dir>/WorkWell.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath is config.yaml inside the default data directory.
func DefaultConfigPath() string {
	dir, err := DefaultDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
