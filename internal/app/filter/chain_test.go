package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/domain/track"
	"github.com/osa030/19player/internal/infra/config"
)

func mustPlaylist(t *testing.T, tracks ...track.Track) *playlist.Playlist {
	t.Helper()
	pl, err := playlist.New("Test", tracks)
	require.NoError(t, err)
	return pl
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"duplicate_track_filter", "duration_limit_filter"}, Names())

	for name, factory := range GetRegistered() {
		f := factory()
		assert.Equal(t, name, f.Name())
		assert.NotEmpty(t, f.Description())
		assert.NotEmpty(t, f.ReturnCodes())
	}
}

func TestNewChainFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       map[string]config.FilterConfig
		wantNames []string
		wantErr   string
	}{
		{
			name: "nil config",
		},
		{
			name: "disabled filters are skipped",
			cfg: map[string]config.FilterConfig{
				"duration_limit_filter":  {Enabled: false},
				"duplicate_track_filter": {Enabled: true},
			},
			wantNames: []string{"duplicate_track_filter"},
		},
		{
			name: "ordered by name",
			cfg: map[string]config.FilterConfig{
				"duration_limit_filter":  {Enabled: true},
				"duplicate_track_filter": {Enabled: true},
			},
			wantNames: []string{"duplicate_track_filter", "duration_limit_filter"},
		},
		{
			name:    "unknown filter",
			cfg:     map[string]config.FilterConfig{"genre_filter": {Enabled: true}},
			wantErr: "unknown filter",
		},
		{
			name: "invalid settings",
			cfg: map[string]config.FilterConfig{
				"duration_limit_filter": {Enabled: true, Settings: map[string]any{"min_minutes": 9, "max_minutes": 3}},
			},
			wantErr: "duration_limit_filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := NewChainFromConfig(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, f := range chain.Filters() {
				names = append(names, f.Name())
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestChain_Apply(t *testing.T) {
	chain, err := NewChainFromConfig(map[string]config.FilterConfig{
		"duration_limit_filter":  {Enabled: true, Settings: map[string]any{"min_minutes": 2, "max_minutes": 6}},
		"duplicate_track_filter": {Enabled: true},
	})
	require.NoError(t, err)

	pl := mustPlaylist(t,
		track.Track{Title: "Keep One", Artist: "A", DurationSeconds: 200},
		track.Track{Title: "Too Short", Artist: "A", DurationSeconds: 60},
		track.Track{Title: "Keep One - 2011 Remaster", Artist: "A", DurationSeconds: 210},
		track.Track{Title: "Too Long", Artist: "B", DurationSeconds: 600},
		track.Track{Title: "Keep Two", Artist: "B", DurationSeconds: 300},
	)

	filtered, err := chain.Apply(context.Background(), pl)
	require.NoError(t, err)

	assert.Equal(t, "Test", filtered.Name())
	require.Equal(t, 2, filtered.Len())
	first, _ := filtered.Track(0)
	second, _ := filtered.Track(1)
	assert.Equal(t, "Keep One", first.Title)
	assert.Equal(t, "Keep Two", second.Title)
}

func TestChain_ApplyEmptyChain(t *testing.T) {
	pl := mustPlaylist(t, track.Track{Title: "Only", DurationSeconds: 10})

	got, err := NewChain().Apply(context.Background(), pl)
	require.NoError(t, err)
	assert.Same(t, pl, got)
}

func TestChain_ApplyDropsEverything(t *testing.T) {
	chain := NewChain()
	f := NewDurationLimitFilter()
	require.NoError(t, f.ValidateConfig(map[string]any{"min_minutes": 10}))
	chain.Add(f)

	_, err := chain.Apply(context.Background(), mustPlaylist(t, track.Track{Title: "Short", DurationSeconds: 30}))
	require.Error(t, err)
	assert.ErrorIs(t, err, playlist.ErrEmptyPlaylist)
}
