// Package playback provides the playback controller and the contracts it drives.
package playback

import "github.com/osa030/19player/internal/domain/track"

// State represents the playback state.
type State int

const (
	StatePaused  State = iota // Nothing is playing (initial state)
	StatePlaying              // Current track is playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only copy of the controller's live state.
type Snapshot struct {
	Index    int         // Current playlist index
	Track    track.Track // Track at Index
	State    State       // Playing or paused
	Volume   float64     // Volume as last set (not clamped)
	Position float64     // Elapsed seconds into the current track
	Percent  float64     // Position as a percentage of the track duration
}

// IsPlaying reports whether the snapshot was taken while playing.
func (s Snapshot) IsPlaying() bool {
	return s.State == StatePlaying
}
