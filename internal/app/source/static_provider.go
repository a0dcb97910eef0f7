package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/domain/track"
)

// StaticTrackConfig is one track listed in the config file.
type StaticTrackConfig struct {
	Title           string `mapstructure:"title" validate:"required"`
	Artist          string `mapstructure:"artist"`
	Artwork         string `mapstructure:"artwork"`
	DurationSeconds int    `mapstructure:"duration_seconds" validate:"gte=0"`
	URL             string `mapstructure:"url"`
}

// StaticProviderConfig holds the settings of the static provider.
type StaticProviderConfig struct {
	Tracks []StaticTrackConfig `mapstructure:"tracks" validate:"required,min=1,dive"`
}

// StaticProvider serves tracks listed directly in the configuration.
type StaticProvider struct {
	name   string
	config *StaticProviderConfig
}

// NewStaticProvider creates a StaticProvider from its settings map.
func NewStaticProvider(name string, settings map[string]any) (*StaticProvider, error) {
	var config StaticProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("static provider config: tracks=%d", len(config.Tracks))
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	if name == "" {
		name = "Static"
	}
	return &StaticProvider{name: name, config: &config}, nil
}

// Load builds the playlist from the configured tracks.
func (p *StaticProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	tracks := make([]track.Track, len(p.config.Tracks))
	for i, t := range p.config.Tracks {
		tracks[i] = track.Track{
			Title:           t.Title,
			Artist:          t.Artist,
			ArtworkRef:      t.Artwork,
			DurationSeconds: t.DurationSeconds,
			URL:             t.URL,
		}
	}
	return playlist.New(p.name, tracks)
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}
