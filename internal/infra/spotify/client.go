// Package spotify provides a read-only client for Spotify playlists.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/19player/internal/domain/track"
)

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Market       string
}

// Playlist is a playlist as fetched from Spotify.
type Playlist struct {
	ID     string
	Name   string
	Tracks []track.Track
}

// New creates a new Spotify client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("spotify credentials are required")
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(spotifyauth.ScopePlaylistReadPrivate),
	)

	// Create token from refresh token
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	// Get HTTP client with auto-refresh capability
	httpClient := auth.Client(ctx, token)
	return newClient(spotify.New(httpClient), cfg.Market), nil
}

func newClient(client *spotify.Client, market string) *Client {
	if market == "" {
		market = "JP"
	}
	return &Client{
		client:     client,
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// GetPlaylist retrieves a playlist's name and all of its tracks.
func (c *Client) GetPlaylist(ctx context.Context, playlistURL string) (*Playlist, error) {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.New("invalid playlist URL")
	}

	var full *spotify.FullPlaylist
	err := c.retry(ctx, func() error {
		p, err := c.client.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Fields("id,name"))
		if err != nil {
			return err
		}
		full = p
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get playlist")
	}

	tracks, err := c.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &Playlist{
		ID:     playlistID,
		Name:   full.Name,
		Tracks: tracks,
	}, nil
}

// GetPlaylistTracks retrieves all tracks from a playlist.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistURL string) ([]track.Track, error) {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.New("invalid playlist URL")
	}

	var tracks []track.Track
	offset := 0
	limit := 100

	for {
		var page *spotify.PlaylistItemPage
		err := c.retry(ctx, func() error {
			p, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
				spotify.Limit(limit),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get playlist items")
		}

		for _, item := range page.Items {
			// Episodes have no Track
			if item.Track.Track != nil && item.Track.Track.ID != "" {
				tracks = append(tracks, c.convertTrack(item.Track.Track))
			}
		}

		if len(page.Items) < limit {
			break
		}
		offset += limit
	}

	return tracks, nil
}

// CheckPlaylistExists checks if a playlist exists without fetching all tracks.
func (c *Client) CheckPlaylistExists(ctx context.Context, playlistURL string) error {
	playlistID := extractPlaylistID(playlistURL)
	if playlistID == "" {
		return errors.New("invalid playlist URL")
	}

	// Fetch only 1 item to check existence
	err := c.retry(ctx, func() error {
		_, err := c.client.GetPlaylistItems(ctx, spotify.ID(playlistID),
			spotify.Limit(1),
			spotify.Offset(0),
			spotify.Market(c.market),
		)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "playlist does not exist or is not accessible")
	}

	return nil
}

// convertTrack converts a Spotify FullTrack to a domain Track.
func (c *Client) convertTrack(t *spotify.FullTrack) track.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var albumArt string
	if len(t.Album.Images) > 0 {
		albumArt = t.Album.Images[0].URL
	}

	return track.Track{
		Title:           t.Name,
		Artist:          strings.Join(artists, ", "),
		ArtworkRef:      albumArt,
		DurationSeconds: int(t.Duration) / 1000,
		URL:             c.GetTrackURL(string(t.ID)),
	}
}

// GetTrackURL returns the Spotify URL for a track.
func (c *Client) GetTrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// retry runs fn until it succeeds, fails permanently, or ctx is done.
// The wait grows linearly with each attempt.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return errors.WithSecondaryError(ctx.Err(), lastErr)
		case <-time.After(c.retryDelay * time.Duration(attempt)):
		}
	}
	return errors.Wrapf(lastErr, "gave up after %d attempts", c.maxRetries)
}

// isRetryable reports whether err is a rate limit or a server-side failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= http.StatusInternalServerError
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// extractPlaylistID extracts the playlist ID from a Spotify playlist URL or URI.
func extractPlaylistID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:playlist:PLAYLIST_ID
	if strings.HasPrefix(input, "spotify:playlist:") {
		return strings.TrimPrefix(input, "spotify:playlist:")
	}

	// Handle URL format: https://open.spotify.com/playlist/PLAYLIST_ID or https://open.spotify.com/intl-XX/playlist/PLAYLIST_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/playlist/") {
		parts := strings.Split(input, "/playlist/")
		if len(parts) >= 2 {
			// Remove query parameters and trailing slashes
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a playlist ID
	return input
}
