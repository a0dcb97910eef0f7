package playback

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as MM:SS. Minutes are not wrapped into hours,
// so 100 minutes and more widen the minutes field. Negative input renders as 00:00.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// VolumeFromSlider converts a 0-100 slider value into the 0-1 volume level.
func VolumeFromSlider(value float64) float64 {
	return value / 100
}

// SliderFromVolume converts a volume level into a 0-100 slider value.
func SliderFromVolume(level float64) float64 {
	return level * 100
}
