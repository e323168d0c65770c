// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Engine   EngineConfig   `yaml:"engine"`
	Playback PlaybackConfig `yaml:"playback"`
	Lyrics   LyricsConfig   `yaml:"lyrics"`
}

// LoggingConfig represents logger configuration.
type LoggingConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
}

// EngineConfig represents the native playback engine endpoint.
type EngineConfig struct {
	BaseURL        string `yaml:"base_url" default:"http://localhost:5000" validate:"required,url"`
	TimeoutMs      int    `yaml:"timeout_ms" default:"5000" validate:"gte=100,lte=60000"`
	PollIntervalMs int    `yaml:"poll_interval_ms" default:"250" validate:"gte=50,lte=5000"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	AutoAdvanceThresholdSecs float64 `yaml:"auto_advance_threshold_secs" default:"1" validate:"gt=0,lte=10"`
	PendingTimeoutMs         int     `yaml:"pending_timeout_ms" default:"2000" validate:"gte=100,lte=30000"`
	Shuffle                  bool    `yaml:"shuffle"`
}

// LyricsConfig represents lyrics retrieval and display configuration.
type LyricsConfig struct {
	SettleDelayMs int              `yaml:"settle_delay_ms" default:"400" validate:"gte=0,lte=5000"`
	Providers     []ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents a single lyrics provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name"`
	Settings    map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file. Environment variables take
// precedence over file values for endpoint fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns the built-in configuration used when no config file
// exists.
func Default() (*Config, error) {
	var cfg Config
	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("ENGINE_BASE_URL"); v != "" {
		c.Engine.BaseURL = v
	}
	if v := os.Getenv("LRCLIB_BASE_URL"); v != "" {
		for i := range c.Lyrics.Providers {
			if c.Lyrics.Providers[i].Type == "lrclib" {
				if c.Lyrics.Providers[i].Settings == nil {
					c.Lyrics.Providers[i].Settings = map[string]any{}
				}
				c.Lyrics.Providers[i].Settings["base_url"] = v
				break
			}
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
