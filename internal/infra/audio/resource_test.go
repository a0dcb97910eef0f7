package audio

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

const testRate = beep.SampleRate(1000)

// manualSink is a clock sink without its ticker; tests call pump directly.
func manualSink() *clockSink {
	return &clockSink{
		sr:   testRate,
		buf:  make([][2]float64, testRate.N(100*time.Millisecond)),
		stop: make(chan struct{}),
	}
}

func newTestResource(t *testing.T) (*Resource, *clockSink) {
	t.Helper()
	s := manualSink()
	r := newResource(s, testRate, time.Hour)
	t.Cleanup(r.Close)
	return r, s
}

func testTrack(seconds int) track.Track {
	return track.Track{Title: "Test", Artist: "Artist", DurationSeconds: seconds}
}

func TestResource_PlayBeforeLoad(t *testing.T) {
	r, _ := newTestResource(t)

	err := r.Play()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Equal(t, 0.0, r.Position())
	assert.Equal(t, 0.0, r.Duration())
}

func TestResource_LoadAndAdvance(t *testing.T) {
	r, s := newTestResource(t)

	r.Load(testTrack(10))
	assert.Equal(t, 0.0, r.Position())
	assert.Equal(t, 10.0, r.Duration())

	// Paused streams do not advance.
	s.pump(testRate.N(time.Second))
	assert.Equal(t, 0.0, r.Position())

	require.NoError(t, r.Play())
	s.pump(testRate.N(2 * time.Second))
	assert.InDelta(t, 2.0, r.Position(), 0.01)

	r.Pause()
	s.pump(testRate.N(time.Second))
	assert.InDelta(t, 2.0, r.Position(), 0.01)
}

func TestResource_SetPosition(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{name: "within track", seconds: 4.5, want: 4.5},
		{name: "negative clamps to start", seconds: -3, want: 0},
		{name: "past end clamps to duration", seconds: 99, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResource(t)
			r.Load(testTrack(10))

			r.SetPosition(tt.seconds)
			assert.InDelta(t, tt.want, r.Position(), 0.01)
		})
	}
}

func TestResource_EndedEvent(t *testing.T) {
	r, s := newTestResource(t)
	r.Load(testTrack(3))
	gen := r.Load(testTrack(1))
	require.NoError(t, r.Play())

	s.pump(testRate.N(2 * time.Second))

	select {
	case ev := <-r.Events():
		assert.Equal(t, playback.AudioEnded, ev.Type)
		assert.Equal(t, gen, ev.Gen)
		assert.InDelta(t, 1.0, ev.Position, 0.01)
	default:
		t.Fatal("expected an ended event")
	}

	// The finished streamer is released by the sink.
	assert.Nil(t, s.streamer)
}

func TestResource_StaleEndIgnored(t *testing.T) {
	r, _ := newTestResource(t)
	stale := r.Load(testTrack(1))
	assert.Greater(t, r.Load(testTrack(5)), stale)
	r.sink.Lock()
	r.ended(stale)
	r.sink.Unlock()

	select {
	case ev := <-r.Events():
		t.Fatalf("unexpected event: %s", ev.Type)
	default:
	}
}

func TestResource_ReportPosition(t *testing.T) {
	r, s := newTestResource(t)
	r.Load(testTrack(10))

	r.reportPosition()
	assert.Len(t, r.Events(), 0, "paused resource must not report")

	require.NoError(t, r.Play())
	s.pump(testRate.N(time.Second))
	r.reportPosition()

	require.Len(t, r.Events(), 1)
	ev := <-r.Events()
	assert.Equal(t, playback.AudioPositionAdvanced, ev.Type)
	assert.InDelta(t, 1.0, ev.Position, 0.01)
}

func TestResource_SetVolumeBeforeLoad(t *testing.T) {
	r, _ := newTestResource(t)
	r.SetVolume(0)
	r.Load(testTrack(10))

	assert.True(t, r.vol.Silent)

	r.SetVolume(0.5)
	assert.False(t, r.vol.Silent)
	assert.InDelta(t, -1.0, r.vol.Volume, 1e-9)
}

func TestApplyLevel(t *testing.T) {
	tests := []struct {
		name       string
		level      float64
		wantSilent bool
		wantVolume float64
	}{
		{name: "unity", level: 1, wantVolume: 0},
		{name: "half", level: 0.5, wantVolume: -1},
		{name: "muted", level: 0, wantSilent: true},
		{name: "negative mutes", level: -0.2, wantSilent: true},
		{name: "boost", level: 2, wantVolume: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol := &effects.Volume{Base: 2}
			applyLevel(vol, tt.level)
			assert.Equal(t, tt.wantSilent, vol.Silent)
			assert.InDelta(t, tt.wantVolume, vol.Volume, 1e-9)
		})
	}
}

func TestSilence_Stream(t *testing.T) {
	s := newSilence(150)
	buf := make([][2]float64, 100)

	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 100, n)

	n, ok = s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	require.NoError(t, s.Seek(-10))
	assert.Equal(t, 0, s.Position())
	require.NoError(t, s.Seek(1000))
	assert.Equal(t, 150, s.Position())
}

func TestNew(t *testing.T) {
	t.Run("clock output", func(t *testing.T) {
		r, err := New(Config{Output: OutputClock, SampleRate: 8000, ProgressInterval: 50 * time.Millisecond})
		require.NoError(t, err)
		defer r.Close()

		r.Load(testTrack(3))
		require.NoError(t, r.Play())
		assert.Eventually(t, func() bool {
			select {
			case ev := <-r.Events():
				return ev.Type == playback.AudioPositionAdvanced
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("unknown output", func(t *testing.T) {
		_, err := New(Config{Output: "tape"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown audio output")
	})
}
