package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

type (
	trackInfoMsg struct {
		index int
		track track.Track
	}
	progressMsg struct {
		percent float64
		elapsed string
	}
	resetProgressMsg struct{}
	playButtonMsg    struct{ playing bool }
	volumeMsg        struct{ level float64 }
)

// sender is satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// Display turns controller display calls into program messages.
// Calls made before a program is attached are dropped; the model starts from a snapshot.
// Send blocks until the program reads the message, so wrap Display in a playback.AsyncDisplay.
type Display struct {
	target atomic.Pointer[sender]
}

var (
	_ playback.Display        = (*Display)(nil)
	_ playback.VolumeRenderer = (*Display)(nil)
)

// NewDisplay creates a detached display.
func NewDisplay() *Display {
	return &Display{}
}

func (d *Display) attach(s sender) {
	d.target.Store(&s)
}

func (d *Display) send(msg tea.Msg) {
	if s := d.target.Load(); s != nil {
		(*s).Send(msg)
	}
}

func (d *Display) UpdateTrackInfo(index int, t track.Track) {
	d.send(trackInfoMsg{index: index, track: t})
}

func (d *Display) UpdateProgress(percent float64, elapsed string) {
	d.send(progressMsg{percent: percent, elapsed: elapsed})
}

func (d *Display) ResetProgress() {
	d.send(resetProgressMsg{})
}

func (d *Display) SetPlayButtonVisual(playing bool) {
	d.send(playButtonMsg{playing: playing})
}

func (d *Display) UpdateVolume(level float64) {
	d.send(volumeMsg{level: level})
}
