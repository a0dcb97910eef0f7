package notification

import (
	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

// Display broadcasts display updates to every subscriber of a Manager.
// Broadcast can block for up to sendTimeout, so callers driving it from the
// controller should wrap it in a playback.AsyncDisplay.
type Display struct {
	manager *Manager
}

var (
	_ playback.Display        = (*Display)(nil)
	_ playback.VolumeRenderer = (*Display)(nil)
)

// NewDisplay creates a display publishing to m.
func NewDisplay(m *Manager) *Display {
	return &Display{manager: m}
}

func (d *Display) UpdateTrackInfo(index int, t track.Track) {
	d.manager.Broadcast(TrackInfo(index, t))
}

func (d *Display) UpdateProgress(percent float64, elapsed string) {
	d.manager.Broadcast(Progress(percent, elapsed))
}

func (d *Display) ResetProgress() {
	d.manager.Broadcast(ResetProgress())
}

func (d *Display) SetPlayButtonVisual(playing bool) {
	d.manager.Broadcast(PlayButton(playing))
}

func (d *Display) UpdateVolume(level float64) {
	d.manager.Broadcast(Volume(level))
}
