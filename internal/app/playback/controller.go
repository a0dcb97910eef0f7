package playback

import (
	"context"
	"errors"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/domain/track"
)

// DefaultVolume is the volume applied at construction when Config leaves it unset.
const DefaultVolume = 0.7

// ErrEmptyPlaylist is returned when the controller is built without tracks.
var ErrEmptyPlaylist = errors.New("playlist must contain at least one track")

// Config holds controller configuration.
type Config struct {
	DefaultVolume *float64 // Initial volume; nil means DefaultVolume, 0 starts muted
}

// Controller keeps playback state consistent with user commands and audio notifications,
// and drives the display surface to reflect it.
//
// Every method holds mu for its whole duration, so commands and audio callbacks
// are only ever interleaved between operations.
type Controller struct {
	mu sync.Mutex

	playlist *playlist.Playlist
	audio    Audio
	display  Display
	volumeUI VolumeRenderer // nil when the display has no volume control

	// Live state
	gen      uint64 // generation returned by the last audio.Load
	index    int
	state    State
	volume   float64
	position float64
}

// NewController creates a controller for pl.
// A nil audio or display is replaced by a no-op so the controller degrades instead of failing.
// Track 0 is loaded into the display without starting playback.
func NewController(pl *playlist.Playlist, audio Audio, display Display, config Config) (*Controller, error) {
	if pl == nil || pl.Len() == 0 {
		return nil, ErrEmptyPlaylist
	}
	if audio == nil {
		audio = &nopAudio{}
	}
	if display == nil {
		display = NopDisplay{}
	}

	volume := DefaultVolume
	if config.DefaultVolume != nil {
		volume = *config.DefaultVolume
	}

	c := &Controller{
		playlist: pl,
		audio:    audio,
		display:  display,
		state:    StatePaused,
		volume:   volume,
	}
	if vr, ok := display.(VolumeRenderer); ok {
		c.volumeUI = vr
	}

	c.audio.SetVolume(c.volume)
	if c.volumeUI != nil {
		c.volumeUI.UpdateVolume(c.volume)
	}
	c.loadTrackLocked(0)

	zlog.Info().Msgf("player initialized: playlist=%q tracks=%d volume=%.2f", pl.Name(), pl.Len(), c.volume)
	return c, nil
}

// Run dispatches audio notifications until ctx is done or the audio event channel closes.
func (c *Controller) Run(ctx context.Context) {
	events := c.audio.Events()
	if events == nil {
		<-ctx.Done()
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case AudioPositionAdvanced:
				c.OnPositionAdvanced()
			case AudioEnded:
				c.onAudioEnded(ev.Gen)
			}
		}
	}
}

// Play starts playback of the loaded track at the current position.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playLocked()
}

// Pause stops playback, keeping the position.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

// TogglePlay pauses when playing and plays otherwise.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePlaying {
		c.pauseLocked()
	} else {
		c.playLocked()
	}
}

// LoadTrack makes index the current track, rewound and paused.
// An index outside the playlist is ignored.
func (c *Controller) LoadTrack(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadTrackLocked(index)
}

// PlayTrack loads index and starts playing it. An index outside the playlist is ignored.
func (c *Controller) PlayTrack(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playTrackLocked(index)
}

// NextTrack plays the following track, wrapping to the first after the last.
func (c *Controller) NextTrack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playTrackLocked(c.playlist.NextIndex(c.index))
}

// PreviousTrack plays the preceding track, wrapping to the last before the first.
func (c *Controller) PreviousTrack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playTrackLocked(c.playlist.PrevIndex(c.index))
}

// SeekTo moves playback to percent (0-100) of the current track.
// percent is not clamped; what an out-of-range position means is up to the audio resource.
func (c *Controller) SeekTo(percent float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.currentTrackLocked()
	c.audio.SetPosition(percent / 100 * float64(t.DurationSeconds))
	c.refreshProgressLocked()
}

// SetVolume applies level (0-1) to the audio resource. level is not clamped.
func (c *Controller) SetVolume(level float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = level
	c.audio.SetVolume(level)
	if c.volumeUI != nil {
		c.volumeUI.UpdateVolume(level)
	}
}

// OnPositionAdvanced refreshes position and progress from the audio resource.
func (c *Controller) OnPositionAdvanced() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshProgressLocked()
}

// OnPlaybackEnded advances to the next track and keeps playing.
func (c *Controller) OnPlaybackEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	zlog.Debug().Msgf("playback: track ended: index=%d title=%q", c.index, c.currentTrackLocked().Title)
	c.playTrackLocked(c.playlist.NextIndex(c.index))
}

// onAudioEnded handles an end-of-track notification delivered by Run.
// Ends reported for an earlier load are dropped. An end that arrives while paused
// moves to the next track without resuming playback.
func (c *Controller) onAudioEnded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		zlog.Debug().Msgf("playback: ignoring end of an earlier load: gen=%d current=%d", gen, c.gen)
		return
	}

	next := c.playlist.NextIndex(c.index)
	if c.state != StatePlaying {
		zlog.Debug().Msgf("playback: track ended while paused: index=%d", c.index)
		c.loadTrackLocked(next)
		return
	}
	zlog.Debug().Msgf("playback: track ended: index=%d title=%q", c.index, c.currentTrackLocked().Title)
	c.playTrackLocked(next)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.currentTrackLocked()
	return Snapshot{
		Index:    c.index,
		Track:    t,
		State:    c.state,
		Volume:   c.volume,
		Position: c.position,
		Percent:  percentOf(c.position, t),
	}
}

// CurrentIndex returns the index of the current track.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// IsPlaying reports whether playback is active.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StatePlaying
}

// Volume returns the volume as last set.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// Position returns the elapsed seconds of the current track as last observed.
func (c *Controller) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Playlist returns the playlist the controller was built with.
func (c *Controller) Playlist() *playlist.Playlist {
	return c.playlist
}

// Must be called with lock held.
func (c *Controller) playLocked() {
	c.state = StatePlaying
	if err := c.audio.Play(); err != nil {
		zlog.Warn().Err(err).Msgf("playback: audio failed to start: index=%d", c.index)
	}
	c.display.SetPlayButtonVisual(true)
}

// Must be called with lock held.
func (c *Controller) pauseLocked() {
	c.state = StatePaused
	c.audio.Pause()
	c.display.SetPlayButtonVisual(false)
}

// loadTrackLocked reports whether index was loaded.
// Must be called with lock held.
func (c *Controller) loadTrackLocked(index int) bool {
	t, ok := c.playlist.Track(index)
	if !ok {
		zlog.Debug().Msgf("playback: ignoring out-of-range track index: index=%d tracks=%d", index, c.playlist.Len())
		return false
	}

	c.index = index
	c.gen = c.audio.Load(t)
	c.position = 0
	c.state = StatePaused

	c.display.UpdateTrackInfo(index, t)
	c.display.ResetProgress()
	c.display.SetPlayButtonVisual(false)
	return true
}

// Must be called with lock held.
func (c *Controller) playTrackLocked(index int) {
	if !c.loadTrackLocked(index) {
		return
	}
	c.playLocked()
}

// Must be called with lock held.
func (c *Controller) refreshProgressLocked() {
	t := c.currentTrackLocked()
	c.position = c.audio.Position()
	c.display.UpdateProgress(percentOf(c.position, t), FormatTime(c.position))
}

// Must be called with lock held.
func (c *Controller) currentTrackLocked() track.Track {
	t, _ := c.playlist.Track(c.index)
	return t
}

// percentOf returns position as a percentage of the track, 0 for zero-length tracks.
func percentOf(position float64, t track.Track) float64 {
	if t.DurationSeconds <= 0 {
		return 0
	}
	return position / float64(t.DurationSeconds) * 100
}
