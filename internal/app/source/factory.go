package source

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/infra/config"
)

// NewProviderFromConfig creates the playlist provider selected by configuration.
// spotify may be nil unless the source is spotify.
func NewProviderFromConfig(cfg *config.Config, spotify SpotifyClient) (Provider, error) {
	pcfg := cfg.Playlist
	zlog.Debug().Msgf("creating playlist provider: source=%s settings=%+v", pcfg.Source, pcfg.Settings)

	var provider Provider
	var err error
	switch pcfg.Source {
	case config.SourceBuiltin, "":
		provider = NewBuiltinProvider(pcfg.Name)

	case config.SourceStatic:
		provider, err = NewStaticProvider(pcfg.Name, pcfg.Settings)

	case config.SourceSpotify:
		provider, err = NewSpotifyProvider(spotify, pcfg.Name, pcfg.Settings)

	default:
		return nil, errors.Newf("unsupported playlist source: %s", pcfg.Source)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to create playlist provider (source %s)", pcfg.Source)
	}

	zlog.Info().Msgf("registered playlist provider: source=%s", provider.Name())
	return provider, nil
}
