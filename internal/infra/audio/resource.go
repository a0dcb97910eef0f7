// Package audio provides a beep-backed audio resource for the playback controller.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

// Output names.
const (
	OutputClock   = "clock"
	OutputSpeaker = "speaker"
)

const eventBuffer = 64

// ErrNotLoaded is returned by Play before any track is loaded.
var ErrNotLoaded = errors.New("no track loaded")

// Config represents audio resource configuration.
type Config struct {
	Output           string
	SampleRate       int
	ProgressInterval time.Duration
}

// Resource plays a track as a seekable stream and reports its progress.
// It implements playback.Audio.
type Resource struct {
	sink     sink
	sr       beep.SampleRate
	interval time.Duration

	// Guarded by the sink lock; the sink reads them while streaming.
	stream *silence
	ctrl   *beep.Ctrl
	vol    *effects.Volume

	mu      sync.Mutex
	loaded  bool
	playing bool
	level   float64
	gen     uint64 // bumped on every Load; end events carry it

	events chan playback.AudioEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a resource on the configured output.
func New(cfg Config) (*Resource, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 250 * time.Millisecond
	}
	sr := beep.SampleRate(cfg.SampleRate)

	var s sink
	switch cfg.Output {
	case "", OutputClock:
		s = newClockSink(sr, cfg.ProgressInterval/5)
	case OutputSpeaker:
		sp, err := newSpeakerSink(sr)
		if err != nil {
			return nil, err
		}
		s = sp
	default:
		return nil, errors.Newf("unknown audio output: %s", cfg.Output)
	}

	r := newResource(s, sr, cfg.ProgressInterval)
	r.wg.Add(1)
	go r.reportLoop()

	zlog.Info().Msgf("audio initialized: output=%s sample_rate=%d", cfg.Output, cfg.SampleRate)
	return r, nil
}

func newResource(s sink, sr beep.SampleRate, interval time.Duration) *Resource {
	return &Resource{
		sink:     s,
		sr:       sr,
		interval: interval,
		level:    1,
		events:   make(chan playback.AudioEvent, eventBuffer),
		stop:     make(chan struct{}),
	}
}

// Load replaces the current stream with t, paused at the start, and returns its generation.
func (r *Resource) Load(t track.Track) uint64 {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.loaded = true
	r.playing = false
	level := r.level
	r.mu.Unlock()

	stream := newSilence(r.sr.N(t.Duration()))
	vol := &effects.Volume{Streamer: stream, Base: 2}
	applyLevel(vol, level)
	ctrl := &beep.Ctrl{Streamer: vol, Paused: true}

	r.sink.Lock()
	r.stream, r.ctrl, r.vol = stream, ctrl, vol
	r.sink.Unlock()

	r.sink.Play(beep.Seq(ctrl, beep.Callback(func() {
		r.ended(gen)
	})))
	zlog.Debug().Msgf("audio: loaded: title=%q duration=%ds gen=%d", t.Title, t.DurationSeconds, gen)
	return gen
}

// Play resumes the loaded stream.
func (r *Resource) Play() error {
	if !r.setPlaying(true) {
		return ErrNotLoaded
	}

	r.sink.Lock()
	r.ctrl.Paused = false
	r.sink.Unlock()
	return nil
}

// Pause halts the stream, keeping its position.
func (r *Resource) Pause() {
	if !r.setPlaying(false) {
		return
	}

	r.sink.Lock()
	r.ctrl.Paused = true
	r.sink.Unlock()
}

// setPlaying reports false when nothing is loaded.
// mu is never held while taking the sink lock: the sink holds its lock when it calls ended.
func (r *Resource) setPlaying(playing bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return false
	}
	r.playing = playing
	return true
}

// Position returns the elapsed seconds of the loaded stream.
func (r *Resource) Position() float64 {
	r.sink.Lock()
	defer r.sink.Unlock()
	if r.stream == nil {
		return 0
	}
	return r.sr.D(r.stream.Position()).Seconds()
}

// Duration returns the length of the loaded stream in seconds.
func (r *Resource) Duration() float64 {
	r.sink.Lock()
	defer r.sink.Unlock()
	if r.stream == nil {
		return 0
	}
	return r.sr.D(r.stream.Len()).Seconds()
}

// SetPosition moves the stream to seconds, clamped to the stream bounds.
func (r *Resource) SetPosition(seconds float64) {
	r.sink.Lock()
	defer r.sink.Unlock()
	if r.stream == nil {
		return
	}
	if math.IsNaN(seconds) {
		seconds = 0
	}
	_ = r.stream.Seek(r.sr.N(time.Duration(seconds * float64(time.Second))))
}

// SetVolume sets the output level, 0 silent and 1 unchanged.
func (r *Resource) SetVolume(level float64) {
	r.mu.Lock()
	r.level = level
	r.mu.Unlock()

	r.sink.Lock()
	defer r.sink.Unlock()
	if r.vol != nil {
		applyLevel(r.vol, level)
	}
}

// Events returns the channel of progress and end notifications.
func (r *Resource) Events() <-chan playback.AudioEvent {
	return r.events
}

// Close stops reporting and releases the output.
func (r *Resource) Close() {
	r.once.Do(func() {
		close(r.stop)
		r.wg.Wait()
		r.sink.Close()
	})
}

func (r *Resource) reportLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.reportPosition()
		}
	}
}

func (r *Resource) reportPosition() {
	r.mu.Lock()
	playing := r.playing
	r.mu.Unlock()
	if !playing {
		return
	}
	r.emit(playback.AudioEvent{Type: playback.AudioPositionAdvanced, Position: r.Position()})
}

// ended runs on the sink goroutine with the sink lock held.
func (r *Resource) ended(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.playing = false
	r.mu.Unlock()

	ev := playback.AudioEvent{Type: playback.AudioEnded, Gen: gen}
	if r.stream != nil {
		ev.Position = r.sr.D(r.stream.Len()).Seconds()
	}

	select {
	case r.events <- ev:
	default:
		// The end must not be lost; deliver it once the consumer catches up.
		go func() {
			select {
			case r.events <- ev:
			case <-r.stop:
			}
		}()
	}
}

// emit drops position events the consumer is too slow to take.
func (r *Resource) emit(ev playback.AudioEvent) {
	select {
	case r.events <- ev:
	default:
		zlog.Debug().Msgf("audio: dropped event: type=%s", ev.Type)
	}
}

// applyLevel maps a linear level onto a base-2 volume effect.
func applyLevel(vol *effects.Volume, level float64) {
	if level <= 0 {
		vol.Silent = true
		vol.Volume = 0
		return
	}
	vol.Silent = false
	vol.Volume = math.Log2(level)
}
