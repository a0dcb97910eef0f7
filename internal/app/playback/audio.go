package playback

import "github.com/osa030/19player/internal/domain/track"

// Audio is the playback-capable resource the controller holds.
// Play and Pause are requests; the controller does not wait for them to take effect.
type Audio interface {
	// Load replaces the current track, rewinds to 0 and stops playback.
	// It returns the generation that end-of-track events for this load carry.
	Load(t track.Track) uint64
	Play() error
	Pause()
	// Position returns the elapsed seconds of the loaded track.
	Position() float64
	// SetPosition moves the playback position. Out-of-range values are left to the implementation.
	SetPosition(seconds float64)
	// Duration returns the length of the loaded track in seconds.
	Duration() float64
	SetVolume(level float64)
	// Events delivers position and end-of-track notifications.
	Events() <-chan AudioEvent
}

// nopAudio stands in when no audio resource is wired.
type nopAudio struct {
	t        track.Track
	position float64
	gen      uint64
}

func (a *nopAudio) Load(t track.Track) uint64 {
	a.t, a.position = t, 0
	a.gen++
	return a.gen
}

func (a *nopAudio) Play() error                 { return nil }
func (a *nopAudio) Pause()                      {}
func (a *nopAudio) Position() float64           { return a.position }
func (a *nopAudio) SetPosition(seconds float64) { a.position = seconds }
func (a *nopAudio) Duration() float64           { return float64(a.t.DurationSeconds) }
func (a *nopAudio) SetVolume(float64)           {}
func (a *nopAudio) Events() <-chan AudioEvent   { return nil }
