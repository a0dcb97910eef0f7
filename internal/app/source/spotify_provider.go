package source

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/playlist"
)

// SpotifyProviderConfig holds the settings of the spotify provider.
type SpotifyProviderConfig struct {
	PlaylistURL string `mapstructure:"playlist_url" validate:"required"`
	MaxTracks   int    `mapstructure:"max_tracks" default:"50" validate:"gte=1,lte=1000"`
}

// SpotifyProvider serves the tracks of a Spotify playlist.
type SpotifyProvider struct {
	spotify SpotifyClient
	name    string
	config  *SpotifyProviderConfig
}

// NewSpotifyProvider creates a SpotifyProvider from its settings map.
func NewSpotifyProvider(spotify SpotifyClient, name string, settings map[string]any) (*SpotifyProvider, error) {
	if spotify == nil {
		return nil, errors.New("spotify client is required")
	}

	var config SpotifyProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	zlog.Debug().Msgf("spotify provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &SpotifyProvider{spotify: spotify, name: name, config: &config}, nil
}

// Load fetches the playlist and keeps at most MaxTracks tracks.
func (p *SpotifyProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	fetched, err := p.spotify.GetPlaylist(ctx, p.config.PlaylistURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load spotify playlist %s", p.config.PlaylistURL)
	}

	tracks := fetched.Tracks
	if len(tracks) > p.config.MaxTracks {
		zlog.Info().Msgf("spotify playlist truncated: playlist=%q tracks=%d max=%d", fetched.Name, len(tracks), p.config.MaxTracks)
		tracks = tracks[:p.config.MaxTracks]
	}

	name := p.name
	if name == "" {
		name = fetched.Name
	}
	pl, err := playlist.New(name, tracks)
	if err != nil {
		return nil, errors.Wrapf(err, "spotify playlist %s is not playable", p.config.PlaylistURL)
	}
	return pl, nil
}

// Name returns the provider name.
func (p *SpotifyProvider) Name() string {
	return "spotify"
}
