package playback

import "github.com/osa030/19player/internal/domain/track"

// Display is a rendering surface the controller updates but does not own.
type Display interface {
	// UpdateTrackInfo renders artwork, title, artist and total duration of the track at index.
	UpdateTrackInfo(index int, t track.Track)
	// UpdateProgress sets the progress indicator (0-100) and the elapsed-time label.
	UpdateProgress(percent float64, elapsed string)
	// ResetProgress sets the progress indicator to 0 and the elapsed-time label to 00:00.
	ResetProgress()
	// SetPlayButtonVisual emphasises the play control while playing.
	SetPlayButtonVisual(playing bool)
}

// VolumeRenderer is an optional Display capability for surfaces with a volume control.
type VolumeRenderer interface {
	UpdateVolume(level float64)
}

// NopDisplay ignores every update. Partial surfaces embed it and override what they render.
type NopDisplay struct{}

func (NopDisplay) UpdateTrackInfo(int, track.Track) {}
func (NopDisplay) UpdateProgress(float64, string)   {}
func (NopDisplay) ResetProgress()                   {}
func (NopDisplay) SetPlayButtonVisual(bool)         {}

// MultiDisplay fans every update out to several surfaces.
type MultiDisplay []Display

// NewMultiDisplay creates a MultiDisplay, dropping nil surfaces.
func NewMultiDisplay(displays ...Display) MultiDisplay {
	m := make(MultiDisplay, 0, len(displays))
	for _, d := range displays {
		if d != nil {
			m = append(m, d)
		}
	}
	return m
}

func (m MultiDisplay) UpdateTrackInfo(index int, t track.Track) {
	for _, d := range m {
		d.UpdateTrackInfo(index, t)
	}
}

func (m MultiDisplay) UpdateProgress(percent float64, elapsed string) {
	for _, d := range m {
		d.UpdateProgress(percent, elapsed)
	}
}

func (m MultiDisplay) ResetProgress() {
	for _, d := range m {
		d.ResetProgress()
	}
}

func (m MultiDisplay) SetPlayButtonVisual(playing bool) {
	for _, d := range m {
		d.SetPlayButtonVisual(playing)
	}
}

// UpdateVolume forwards to members that render volume.
func (m MultiDisplay) UpdateVolume(level float64) {
	for _, d := range m {
		if vr, ok := d.(VolumeRenderer); ok {
			vr.UpdateVolume(level)
		}
	}
}
