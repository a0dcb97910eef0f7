package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19player/internal/domain/playlist"
	"github.com/osa030/19player/internal/domain/track"
)

// fakeAudio records requests and lets tests drive the position.
type fakeAudio struct {
	mu       sync.Mutex
	loaded   []track.Track
	playing  bool
	position float64
	volume   float64
	plays    int
	pauses   int
	playErr  error
	gen      uint64
	events   chan AudioEvent
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{events: make(chan AudioEvent, 10)}
}

func (a *fakeAudio) Load(t track.Track) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loaded = append(a.loaded, t)
	a.playing = false
	a.position = 0
	a.gen++
	return a.gen
}

// end queues the end-of-track event the current load would emit.
func (a *fakeAudio) end() {
	a.mu.Lock()
	gen := a.gen
	a.mu.Unlock()
	a.events <- AudioEvent{Type: AudioEnded, Gen: gen}
}

func (a *fakeAudio) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plays++
	a.playing = true
	return a.playErr
}

func (a *fakeAudio) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pauses++
	a.playing = false
}

func (a *fakeAudio) Position() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

func (a *fakeAudio) SetPosition(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = seconds
}

func (a *fakeAudio) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.loaded) == 0 {
		return 0
	}
	return float64(a.loaded[len(a.loaded)-1].DurationSeconds)
}

func (a *fakeAudio) SetVolume(level float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volume = level
}

func (a *fakeAudio) Events() <-chan AudioEvent {
	return a.events
}

// recordingDisplay records every update it receives.
type recordingDisplay struct {
	mu         sync.Mutex
	trackInfo  []int
	progress   []string
	percents   []float64
	resets     int
	playButton []bool
	volumes    []float64
}

func (d *recordingDisplay) UpdateTrackInfo(index int, _ track.Track) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trackInfo = append(d.trackInfo, index)
}

func (d *recordingDisplay) UpdateProgress(percent float64, elapsed string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.percents = append(d.percents, percent)
	d.progress = append(d.progress, elapsed)
}

func (d *recordingDisplay) ResetProgress() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++
}

func (d *recordingDisplay) SetPlayButtonVisual(playing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playButton = append(d.playButton, playing)
}

func (d *recordingDisplay) UpdateVolume(level float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volumes = append(d.volumes, level)
}

func (d *recordingDisplay) lastPlayButton() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playButton[len(d.playButton)-1]
}

func testPlaylist(t *testing.T) *playlist.Playlist {
	t.Helper()
	pl, err := playlist.New("test", []track.Track{
		{Title: "One", Artist: "A", DurationSeconds: 312},
		{Title: "Two", Artist: "B", DurationSeconds: 240},
		{Title: "Three", Artist: "C", DurationSeconds: 210},
		{Title: "Four", Artist: "D", DurationSeconds: 180},
	})
	require.NoError(t, err)
	return pl
}

func newTestController(t *testing.T) (*Controller, *fakeAudio, *recordingDisplay) {
	t.Helper()
	audio := newFakeAudio()
	display := &recordingDisplay{}
	c, err := NewController(testPlaylist(t), audio, display, Config{})
	require.NoError(t, err)
	return c, audio, display
}

func TestNewController(t *testing.T) {
	c, audio, display := newTestController(t)

	assert.Equal(t, 0, c.CurrentIndex())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, DefaultVolume, c.Volume())
	assert.Equal(t, 0.0, c.Position())

	assert.Equal(t, DefaultVolume, audio.volume)
	assert.Equal(t, 0, audio.plays, "construction must not start playback")
	require.Len(t, audio.loaded, 1)
	assert.Equal(t, "One", audio.loaded[0].Title)

	assert.Equal(t, []int{0}, display.trackInfo)
	assert.Equal(t, 1, display.resets)
	assert.Equal(t, []bool{false}, display.playButton)
	assert.Equal(t, []float64{DefaultVolume}, display.volumes)
}

func TestNewController_EmptyPlaylist(t *testing.T) {
	c, err := NewController(nil, newFakeAudio(), nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
	assert.Nil(t, c)
}

func TestNewController_MissingCollaborators(t *testing.T) {
	c, err := NewController(testPlaylist(t), nil, nil, Config{DefaultVolume: ptr(0.5)})
	require.NoError(t, err)

	// Every operation degrades to state changes only.
	c.PlayTrack(2)
	c.SeekTo(50)
	c.SetVolume(0.2)
	c.OnPositionAdvanced()
	c.OnPlaybackEnded()

	s := c.Snapshot()
	assert.Equal(t, 3, s.Index)
	assert.True(t, s.IsPlaying())
	assert.Equal(t, 0.2, s.Volume)
}

func TestController_LoadTrack(t *testing.T) {
	c, audio, _ := newTestController(t)

	for i := 0; i < 4; i++ {
		c.Play()
		audio.SetPosition(30)
		c.OnPositionAdvanced()

		c.LoadTrack(i)

		assert.Equal(t, i, c.CurrentIndex())
		assert.False(t, c.IsPlaying())
		assert.Equal(t, 0.0, c.Position())
	}
}

func TestController_LoadTrack_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{name: "negative", index: -1},
		{name: "past end", index: 4},
		{name: "far past end", index: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, audio, display := newTestController(t)
			c.PlayTrack(1)
			before := c.Snapshot()
			loads := len(audio.loaded)
			infos := len(display.trackInfo)

			c.LoadTrack(tt.index)
			c.PlayTrack(tt.index)

			assert.Equal(t, before, c.Snapshot())
			assert.Len(t, audio.loaded, loads)
			assert.Len(t, display.trackInfo, infos)
		})
	}
}

func TestController_PlayPause(t *testing.T) {
	c, audio, display := newTestController(t)

	c.Play()
	assert.True(t, c.IsPlaying())
	assert.True(t, audio.playing)
	assert.True(t, display.lastPlayButton())

	c.Pause()
	assert.False(t, c.IsPlaying())
	assert.False(t, audio.playing)
	assert.False(t, display.lastPlayButton())
}

func TestController_PlayFailureIsNotFatal(t *testing.T) {
	c, audio, _ := newTestController(t)
	audio.playErr = assert.AnError

	c.Play()
	assert.True(t, c.IsPlaying())
}

func TestController_TogglePlay(t *testing.T) {
	c, _, _ := newTestController(t)

	c.TogglePlay()
	assert.True(t, c.IsPlaying())

	c.TogglePlay()
	assert.False(t, c.IsPlaying())

	c.TogglePlay()
	c.TogglePlay()
	assert.False(t, c.IsPlaying(), "two toggles from paused return to paused")
}

func TestController_NextPreviousWrap(t *testing.T) {
	c, _, _ := newTestController(t)

	c.LoadTrack(3)
	c.NextTrack()
	assert.Equal(t, 0, c.CurrentIndex())
	assert.True(t, c.IsPlaying())

	c.PreviousTrack()
	assert.Equal(t, 3, c.CurrentIndex())
	assert.True(t, c.IsPlaying())

	c.PreviousTrack()
	assert.Equal(t, 2, c.CurrentIndex())

	c.NextTrack()
	assert.Equal(t, 3, c.CurrentIndex())
}

func TestController_PlaybackEndedAutoAdvances(t *testing.T) {
	c, audio, _ := newTestController(t)

	c.PlayTrack(3)
	c.OnPlaybackEnded()

	assert.Equal(t, 0, c.CurrentIndex())
	assert.True(t, c.IsPlaying())
	assert.True(t, audio.playing)
	assert.Equal(t, "One", audio.loaded[len(audio.loaded)-1].Title)
}

func TestController_SeekTo(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		expected float64
		elapsed  string
	}{
		{name: "half", percent: 50, expected: 120, elapsed: "02:00"},
		{name: "start", percent: 0, expected: 0, elapsed: "00:00"},
		{name: "end", percent: 100, expected: 240, elapsed: "04:00"},
		{name: "beyond end passes through", percent: 150, expected: 360, elapsed: "06:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, audio, display := newTestController(t)
			c.LoadTrack(1) // 240 seconds

			c.SeekTo(tt.percent)

			assert.Equal(t, tt.expected, audio.Position())
			assert.Equal(t, tt.expected, c.Position())
			assert.Equal(t, tt.elapsed, display.progress[len(display.progress)-1])
			assert.InDelta(t, tt.percent, display.percents[len(display.percents)-1], 1e-9)
		})
	}
}

func TestController_SetVolume(t *testing.T) {
	tests := []struct {
		name  string
		level float64
	}{
		{name: "in range", level: 0.3},
		{name: "mute", level: 0},
		{name: "above range is not clamped", level: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, audio, display := newTestController(t)

			c.SetVolume(tt.level)

			assert.Equal(t, tt.level, c.Volume())
			assert.Equal(t, tt.level, audio.volume)
			assert.Equal(t, tt.level, display.volumes[len(display.volumes)-1])
		})
	}
}

func TestController_OnPositionAdvanced(t *testing.T) {
	c, audio, display := newTestController(t)
	c.PlayTrack(3) // 180 seconds

	audio.SetPosition(65.7)
	c.OnPositionAdvanced()

	assert.Equal(t, 65.7, c.Position())
	assert.Equal(t, "01:05", display.progress[len(display.progress)-1])
	assert.InDelta(t, 65.7/180*100, display.percents[len(display.percents)-1], 1e-9)

	s := c.Snapshot()
	assert.InDelta(t, 65.7/180*100, s.Percent, 1e-9)
	assert.Equal(t, "Four", s.Track.Title)
}

func TestController_ZeroLengthTrack(t *testing.T) {
	pl, err := playlist.New("zero", []track.Track{{Title: "Empty"}})
	require.NoError(t, err)
	display := &recordingDisplay{}
	c, err := NewController(pl, newFakeAudio(), display, Config{})
	require.NoError(t, err)

	c.SeekTo(50)
	assert.Equal(t, 0.0, display.percents[len(display.percents)-1])

	c.OnPlaybackEnded()
	assert.Equal(t, 0, c.CurrentIndex())
	assert.True(t, c.IsPlaying())
}

func TestController_Run(t *testing.T) {
	c, audio, display := newTestController(t)
	c.PlayTrack(3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	audio.SetPosition(90)
	audio.events <- AudioEvent{Type: AudioPositionAdvanced, Position: 90}
	assert.Eventually(t, func() bool {
		return c.Position() == 90
	}, time.Second, 5*time.Millisecond)

	audio.end()
	assert.Eventually(t, func() bool {
		return c.CurrentIndex() == 0
	}, time.Second, 5*time.Millisecond)
	assert.True(t, c.IsPlaying())

	display.mu.Lock()
	assert.Contains(t, display.progress, "01:30")
	display.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestController_RunStopsWhenEventsClose(t *testing.T) {
	c, audio, _ := newTestController(t)

	done := make(chan struct{})
	go func() {
		c.Run(context.Background())
		close(done)
	}()
	close(audio.events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after events closed")
	}
}

// runFor dispatches audio events for d, then stops Run.
func runFor(t *testing.T, c *Controller, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	c.Run(ctx)
}

func TestController_RunDropsStaleEnd(t *testing.T) {
	tests := []struct {
		name        string
		after       func(c *Controller)
		wantIndex   int
		wantPlaying bool
	}{
		{
			name:        "track selected before the end is handled",
			after:       func(c *Controller) { c.PlayTrack(1) },
			wantIndex:   1,
			wantPlaying: true,
		},
		{
			name:        "track loaded before the end is handled",
			after:       func(c *Controller) { c.LoadTrack(2) },
			wantIndex:   2,
			wantPlaying: false,
		},
		{
			name:        "next before the end is handled",
			after:       func(c *Controller) { c.NextTrack() },
			wantIndex:   1,
			wantPlaying: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, audio, _ := newTestController(t)
			c.Play()
			audio.end()
			tt.after(c)

			runFor(t, c, 100*time.Millisecond)

			assert.Equal(t, tt.wantIndex, c.CurrentIndex())
			assert.Equal(t, tt.wantPlaying, c.IsPlaying())
		})
	}
}

func TestController_RunEndWhilePausedStaysPaused(t *testing.T) {
	c, audio, display := newTestController(t)
	c.Play()
	audio.end()
	c.Pause()
	plays := audio.plays

	runFor(t, c, 100*time.Millisecond)

	assert.Equal(t, 1, c.CurrentIndex())
	assert.False(t, c.IsPlaying())
	assert.Equal(t, plays, audio.plays)
	display.mu.Lock()
	assert.Equal(t, 1, display.trackInfo[len(display.trackInfo)-1])
	display.mu.Unlock()
}

func ptr[T any](v T) *T { return &v }

func TestNewController_StartVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume *float64
		want   float64
	}{
		{"unset", nil, DefaultVolume},
		{"muted", ptr(0.0), 0},
		{"configured", ptr(0.4), 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio := newFakeAudio()
			c, err := NewController(testPlaylist(t), audio, nil, Config{DefaultVolume: tt.volume})
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Volume())
			assert.Equal(t, tt.want, audio.volume)
		})
	}
}
