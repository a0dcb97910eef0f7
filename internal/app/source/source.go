// Package source provides the strategies that build the player's fixed playlist.
package source

import (
	"context"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/infra/spotify"
)

// Provider builds the playlist once at start-up.
type Provider interface {
	// Load returns the playlist. It never returns an empty playlist without an error.
	Load(ctx context.Context) (*playlist.Playlist, error)

	// Name returns the provider name (used in config).
	Name() string
}

// SpotifyClient defines the Spotify operations needed by the spotify provider.
type SpotifyClient interface {
	GetPlaylist(ctx context.Context, playlistURL string) (*spotify.Playlist, error)
}

// BuiltinProvider serves the reference playlist.
type BuiltinProvider struct {
	name string
}

// NewBuiltinProvider creates a BuiltinProvider. An empty name keeps the built-in name.
func NewBuiltinProvider(name string) *BuiltinProvider {
	return &BuiltinProvider{name: name}
}

// Load returns the reference playlist.
func (p *BuiltinProvider) Load(ctx context.Context) (*playlist.Playlist, error) {
	builtin := playlist.Builtin()
	if p.name == "" {
		return builtin, nil
	}
	return playlist.New(p.name, builtin.Tracks())
}

// Name returns the provider name.
func (p *BuiltinProvider) Name() string {
	return "builtin"
}
