package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Fetch    FetchConfig
	Nav      NavConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// FetchConfig bounds per-source fetch retries.
type FetchConfig struct {
	MaxAttempts uint64 `mapstructure:"max_attempts"`
	DelayMs     int    `mapstructure:"delay_ms"`
}

// Delay returns the inter-attempt delay as a duration.
func (f FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelayMs) * time.Millisecond
}

// NavConfig tunes the navigation dispatcher.
type NavConfig struct {
	CooldownMs int `mapstructure:"cooldown_ms"`
}

// Cooldown returns the post-navigation cooldown as a duration.
func (n NavConfig) Cooldown() time.Duration {
	return time.Duration(n.CooldownMs) * time.Millisecond
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix JASKDESK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskdesk", "jaskdesk.db"))
	v.SetDefault("fetch.max_attempts", 5)
	v.SetDefault("fetch.delay_ms", 500)
	v.SetDefault("nav.cooldown_ms", 500)
	v.SetDefault("ui.date_format", "02/01/2006")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jaskdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
