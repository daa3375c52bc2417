// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Admin  AdminConfig  `yaml:"admin"`
	Game   GameConfig   `yaml:"game"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr               string      `yaml:"addr" default:":8080"`
	CORSOrigins        []string    `yaml:"cors_origins" default:"[\"*\"]"`
	ShutdownTimeoutSec int         `yaml:"shutdown_timeout_sec" default:"10" validate:"gte=1,lte=120"`
	Hooks              HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AdminConfig represents admin-related configuration.
type AdminConfig struct {
	Token string `yaml:"token" validate:"required"`
}

// GameConfig represents game clock configuration.
type GameConfig struct {
	Title             string `yaml:"title" default:"Line Change Timer"`
	Roster            string `yaml:"roster"` // comma-separated player names loaded on first start
	MaxDurationSec    int    `yaml:"max_duration_sec" validate:"gte=0"`
	RefreshIntervalMs int    `yaml:"refresh_interval_ms" default:"100" validate:"gte=10,lte=5000"`
	DisplayCeilingSec int    `yaml:"display_ceiling_sec" default:"359999" validate:"gte=1"`
}

// StoreConfig represents persistence configuration.
type StoreConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path" default:"data/game.yaml"`
}

// MaxDuration returns the game cap (zero means no cap).
func (g GameConfig) MaxDuration() time.Duration {
	return time.Duration(g.MaxDurationSec) * time.Second
}

// RefreshInterval returns the display refresh period.
func (g GameConfig) RefreshInterval() time.Duration {
	return time.Duration(g.RefreshIntervalMs) * time.Millisecond
}

// DisplayCeiling returns the largest duration a clock display shows.
func (g GameConfig) DisplayCeiling() time.Duration {
	return time.Duration(g.DisplayCeilingSec) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("LINETIMER_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("LINETIMER_ROSTER"); v != "" {
		c.Game.Roster = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// The cap must outlast at least one refresh so the cap check can fire.
	if c.Game.MaxDurationSec > 0 && c.Game.RefreshInterval() >= c.Game.MaxDuration() {
		return errors.Newf("refresh_interval_ms (%d) must be shorter than max_duration_sec (%d)",
			c.Game.RefreshIntervalMs, c.Game.MaxDurationSec)
	}

	if !c.Store.Disabled && strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path is required unless the store is disabled")
	}

	if c.Game.Roster != "" && strings.Trim(c.Game.Roster, ", \t") == "" {
		return errors.Newf("game.roster (%q) contains no player names", c.Game.Roster)
	}

	return nil
}
