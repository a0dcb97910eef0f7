// Package track provides the Track domain entity.
package track

import (
	"errors"
	"time"
)

// Errors
var (
	ErrEmptyTitle       = errors.New("track title is empty")
	ErrNegativeDuration = errors.New("track duration is negative")
)

// Track represents one playable item.
// Tracks are values and are never modified once a playlist holds them.
type Track struct {
	Title           string // Track title
	Artist          string // Artist name(s), already joined for display
	ArtworkRef      string // Opaque artwork reference (path or URL)
	DurationSeconds int    // Track length in whole seconds
	URL             string // Source link (empty for built-in tracks)
}

// Duration returns the track length as a time.Duration.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// Validate checks the fields a player relies on.
func (t Track) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if t.DurationSeconds < 0 {
		return ErrNegativeDuration
	}
	return nil
}
