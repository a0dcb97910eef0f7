package playback

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19player/internal/domain/track"
)

const asyncDisplayBuffer = 256

// AsyncDisplay queues updates for a slow surface and applies them in order on its own goroutine,
// so the controller never waits on rendering. Updates are dropped when the queue is full.
type AsyncDisplay struct {
	target Display
	queue  chan func()
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncDisplay starts a goroutine applying updates to target. Call Close to stop it.
func NewAsyncDisplay(target Display) *AsyncDisplay {
	d := &AsyncDisplay{
		target: target,
		queue:  make(chan func(), asyncDisplayBuffer),
		done:   make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *AsyncDisplay) loop() {
	defer close(d.done)
	for fn := range d.queue {
		fn()
	}
}

// enqueue is a no-op after Close.
func (d *AsyncDisplay) enqueue(fn func()) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- fn:
	default:
		zlog.Debug().Msg("playback: display queue full, dropping update")
	}
}

func (d *AsyncDisplay) UpdateTrackInfo(index int, t track.Track) {
	d.enqueue(func() { d.target.UpdateTrackInfo(index, t) })
}

func (d *AsyncDisplay) UpdateProgress(percent float64, elapsed string) {
	d.enqueue(func() { d.target.UpdateProgress(percent, elapsed) })
}

func (d *AsyncDisplay) ResetProgress() {
	d.enqueue(d.target.ResetProgress)
}

func (d *AsyncDisplay) SetPlayButtonVisual(playing bool) {
	d.enqueue(func() { d.target.SetPlayButtonVisual(playing) })
}

// UpdateVolume is forwarded only when the target renders volume.
func (d *AsyncDisplay) UpdateVolume(level float64) {
	vr, ok := d.target.(VolumeRenderer)
	if !ok {
		return
	}
	d.enqueue(func() { vr.UpdateVolume(level) })
}

// Close stops accepting updates and waits until queued ones are applied.
func (d *AsyncDisplay) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
