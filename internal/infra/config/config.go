// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Playlist source types.
const (
	SourceBuiltin = "builtin"
	SourceStatic  = "static"
	SourceSpotify = "spotify"
)

// Audio outputs.
const (
	OutputClock   = "clock"
	OutputSpeaker = "speaker"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Control  ControlConfig           `yaml:"control"`
	Player   PlayerConfig            `yaml:"player"`
	Audio    AudioConfig             `yaml:"audio"`
	Playlist PlaylistConfig          `yaml:"playlist"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Spotify  SpotifyConfig           `yaml:"spotify"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// ControlConfig represents remote control configuration.
type ControlConfig struct {
	Token string `yaml:"token"` // Empty disables token checks
}

// PlayerConfig represents playback controller configuration.
type PlayerConfig struct {
	DefaultVolume      *float64 `yaml:"default_volume" default:"0.7" validate:"required,gte=0,lte=1"` // 0 starts muted
	ProgressIntervalMs int      `yaml:"progress_interval_ms" default:"250" validate:"gte=50,lte=5000"`
}

// AudioConfig represents audio output configuration.
type AudioConfig struct {
	Output     string `yaml:"output" default:"clock" validate:"oneof=clock speaker"`
	SampleRate int    `yaml:"sample_rate" default:"44100" validate:"gte=8000,lte=192000"`
}

// PlaylistConfig represents the playlist source configuration.
type PlaylistConfig struct {
	Source   string         `yaml:"source" default:"builtin" validate:"oneof=builtin static spotify"`
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings"`
}

// FilterConfig represents a playlist filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	Market       string `yaml:"market" validate:"omitempty,len=2" default:"JP"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	// Only fails on malformed default tags.
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
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
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("PLAYER_CONTROL_TOKEN"); v != "" {
		c.Control.Token = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if err := c.validateSpotify(); err != nil {
		return err
	}

	return nil
}

// validateSpotify requires credentials only when the playlist comes from Spotify.
func (c *Config) validateSpotify() error {
	if c.Playlist.Source != SourceSpotify {
		return nil
	}
	if c.Spotify.ClientID == "" {
		return errors.New("spotify.client_id is required when playlist.source is spotify")
	}
	if c.Spotify.ClientSecret == "" {
		return errors.New("spotify.client_secret is required when playlist.source is spotify")
	}
	if c.Spotify.RefreshToken == "" {
		return errors.New("spotify.refresh_token is required when playlist.source is spotify")
	}
	return nil
}

// ProgressInterval returns the position notification interval.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Player.ProgressIntervalMs) * time.Millisecond
}

// TokenRequired reports whether remote commands require a token.
func (c *Config) TokenRequired() bool {
	return c.Control.Token != ""
}
