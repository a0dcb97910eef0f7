package playback

// AudioEventType represents a notification emitted by an audio resource.
type AudioEventType int

const (
	AudioPositionAdvanced AudioEventType = iota // Playback position moved
	AudioEnded                                  // Loaded track played to the end
)

// String returns the string representation of the event type.
func (e AudioEventType) String() string {
	switch e {
	case AudioPositionAdvanced:
		return "position_advanced"
	case AudioEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// AudioEvent represents an audio resource notification.
type AudioEvent struct {
	Type     AudioEventType
	Position float64 // Position in seconds when the event was emitted
	Gen      uint64  // Load generation the event belongs to; set on AudioEnded
}
