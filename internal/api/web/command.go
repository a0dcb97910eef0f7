package web

import (
	"encoding/json"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19player/internal/app/playback"
)

// Command names accepted over the websocket.
const (
	CommandPlay     = "play"
	CommandPause    = "pause"
	CommandToggle   = "toggle"
	CommandNext     = "next"
	CommandPrevious = "previous"
	CommandLoad     = "load"
	CommandSelect   = "select"
	CommandSeek     = "seek"
	CommandVolume   = "volume"
)

// Command is an inbound websocket message.
type Command struct {
	Command string   `json:"command"`
	Value   *float64 `json:"value,omitempty"`
}

func parseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, errors.Wrap(err, "invalid command JSON")
	}
	return cmd, nil
}

// apply runs cmd against p. Invalid input is rejected before reaching p.
func (cmd Command) apply(p playback.Player) error {
	switch cmd.Command {
	case CommandPlay:
		p.Play()
	case CommandPause:
		p.Pause()
	case CommandToggle:
		p.TogglePlay()
	case CommandNext:
		p.NextTrack()
	case CommandPrevious:
		p.PreviousTrack()
	case CommandLoad, CommandSelect:
		index, err := cmd.index(p)
		if err != nil {
			return err
		}
		if cmd.Command == CommandLoad {
			p.LoadTrack(index)
		} else {
			p.PlayTrack(index)
		}
	case CommandSeek:
		v, err := cmd.value()
		if err != nil {
			return err
		}
		p.SeekTo(v)
	case CommandVolume:
		v, err := cmd.value()
		if err != nil {
			return err
		}
		if v < 0 || v > 100 {
			return errors.Newf("volume must be within 0-100: %v", v)
		}
		p.SetVolume(playback.VolumeFromSlider(v))
	default:
		return errors.Newf("unknown command: %q", cmd.Command)
	}
	return nil
}

func (cmd Command) value() (float64, error) {
	if cmd.Value == nil {
		return 0, errors.Newf("%s requires a value", cmd.Command)
	}
	v := *cmd.Value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf("%s value must be finite", cmd.Command)
	}
	return v, nil
}

func (cmd Command) index(p playback.Player) (int, error) {
	v, err := cmd.value()
	if err != nil {
		return 0, err
	}
	index := int(v)
	if float64(index) != v || !p.Playlist().Contains(index) {
		return 0, errors.Newf("track index out of range: %v (tracks: %d)", v, p.Playlist().Len())
	}
	return index, nil
}
