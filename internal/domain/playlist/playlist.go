// Package playlist provides the Playlist domain entity.
package playlist

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/19player/internal/domain/track"
)

// ErrEmptyPlaylist is returned when a playlist would hold no tracks.
var ErrEmptyPlaylist = errors.New("playlist is empty")

// Playlist is a fixed, ordered sequence of tracks indexed 0..N-1.
type Playlist struct {
	name   string
	tracks []track.Track
}

// New creates a playlist. It fails when tracks is empty or a track is invalid.
func New(name string, tracks []track.Track) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, ErrEmptyPlaylist
	}
	for i, t := range tracks {
		if err := t.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid track at index %d", i)
		}
	}

	owned := make([]track.Track, len(tracks))
	copy(owned, tracks)
	return &Playlist{name: name, tracks: owned}, nil
}

// Name returns the playlist name.
func (p *Playlist) Name() string {
	return p.name
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Contains reports whether index is a valid position in the playlist.
func (p *Playlist) Contains(index int) bool {
	return index >= 0 && index < len(p.tracks)
}

// Track returns the track at index.
func (p *Playlist) Track(index int) (track.Track, bool) {
	if !p.Contains(index) {
		return track.Track{}, false
	}
	return p.tracks[index], true
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []track.Track {
	result := make([]track.Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// NextIndex returns the index after index, wrapping to 0 after the last track.
func (p *Playlist) NextIndex(index int) int {
	return (index + 1) % len(p.tracks)
}

// PrevIndex returns the index before index, wrapping to the last track before 0.
func (p *Playlist) PrevIndex(index int) int {
	n := len(p.tracks)
	return (index - 1 + n) % n
}

// TotalDuration returns the total duration of all tracks in seconds.
func (p *Playlist) TotalDuration() int64 {
	var total int64
	for _, t := range p.tracks {
		total += int64(t.DurationSeconds)
	}
	return total
}
