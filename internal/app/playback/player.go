package playback

import "github.com/osa030/19player/internal/domain/playlist"

// Player is the command and query surface input adapters drive.
type Player interface {
	Play()
	Pause()
	TogglePlay()
	LoadTrack(index int)
	PlayTrack(index int)
	NextTrack()
	PreviousTrack()
	SeekTo(percent float64)
	SetVolume(level float64)

	Snapshot() Snapshot
	Playlist() *playlist.Playlist
}

var _ Player = (*Controller)(nil)
