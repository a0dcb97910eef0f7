package audio

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// sink consumes a streamer in real time.
// Lock guards every streamer the sink is consuming.
type sink interface {
	Play(s beep.Streamer) // replaces the current streamer
	Lock()
	Unlock()
	Close()
}

// clockSink pulls samples on a ticker and discards them. No sound device is needed.
type clockSink struct {
	mu       sync.Mutex
	sr       beep.SampleRate
	streamer beep.Streamer
	buf      [][2]float64

	stop chan struct{}
	wg   sync.WaitGroup
}

func newClockSink(sr beep.SampleRate, tick time.Duration) *clockSink {
	s := &clockSink{
		sr:   sr,
		buf:  make([][2]float64, sr.N(100*time.Millisecond)),
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop(tick)
	return s
}

func (s *clockSink) loop(tick time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.pump(s.sr.N(now.Sub(last)))
			last = now
		}
	}
}

// pump streams n samples from the current streamer.
func (s *clockSink) pump(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n > 0 && s.streamer != nil {
		chunk := n
		if chunk > len(s.buf) {
			chunk = len(s.buf)
		}
		if _, ok := s.streamer.Stream(s.buf[:chunk]); !ok {
			s.streamer = nil
			return
		}
		n -= chunk
	}
}

func (s *clockSink) Play(streamer beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streamer = streamer
}

func (s *clockSink) Lock()   { s.mu.Lock() }
func (s *clockSink) Unlock() { s.mu.Unlock() }

func (s *clockSink) Close() {
	close(s.stop)
	s.wg.Wait()
}

// speakerSink plays through the system sound device.
type speakerSink struct{}

func newSpeakerSink(sr beep.SampleRate) (*speakerSink, error) {
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, errors.Wrap(err, "failed to initialize speaker")
	}
	return &speakerSink{}, nil
}

func (speakerSink) Play(streamer beep.Streamer) {
	speaker.Clear()
	speaker.Play(streamer)
}

func (speakerSink) Lock()   { speaker.Lock() }
func (speakerSink) Unlock() { speaker.Unlock() }
func (speakerSink) Close()  { speaker.Clear() }
