package notification

import (
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

// Notification types.
const (
	TypeTrackInfo     = "track_info"
	TypeProgress      = "progress"
	TypeResetProgress = "reset_progress"
	TypePlayButton    = "play_button"
	TypeVolume        = "volume"
	TypeInitialState  = "initial_state"
)

// Common field names.
const (
	FieldType       = "type"
	FieldSequenceNo = "sequence_no"
)

// TrackInfo describes a newly loaded track.
func TrackInfo(index int, t track.Track) *structpb.Struct {
	return build(TypeTrackInfo, TrackFields(index, t))
}

// Progress describes the playback position.
func Progress(percent float64, elapsed string) *structpb.Struct {
	return build(TypeProgress, map[string]any{
		"percent": percent,
		"elapsed": elapsed,
	})
}

// ResetProgress tells subscribers the position went back to zero.
func ResetProgress() *structpb.Struct {
	return build(TypeResetProgress, nil)
}

// PlayButton carries the play/pause indicator.
func PlayButton(playing bool) *structpb.Struct {
	return build(TypePlayButton, map[string]any{"playing": playing})
}

// Volume carries the volume as a level and a slider value.
func Volume(level float64) *structpb.Struct {
	return build(TypeVolume, map[string]any{
		"volume": level,
		"slider": playback.SliderFromVolume(level),
	})
}

// InitialState is the first notification a new subscriber receives.
func InitialState(s playback.Snapshot) *structpb.Struct {
	return build(TypeInitialState, map[string]any{"state": StateFields(s)})
}

// State converts a snapshot into a struct.
func State(s playback.Snapshot) *structpb.Struct {
	st, err := structpb.NewStruct(StateFields(s))
	if err != nil {
		zlog.Warn().Err(err).Msg("notification: failed to build state")
		return &structpb.Struct{}
	}
	return st
}

// StateFields returns the JSON-compatible form of a snapshot.
func StateFields(s playback.Snapshot) map[string]any {
	return map[string]any{
		"index":    s.Index,
		"track":    TrackFields(s.Index, s.Track),
		"state":    s.State.String(),
		"playing":  s.IsPlaying(),
		"volume":   s.Volume,
		"position": s.Position,
		"percent":  s.Percent,
		"elapsed":  playback.FormatTime(s.Position),
	}
}

// TrackFields returns the JSON-compatible form of a track at index.
func TrackFields(index int, t track.Track) map[string]any {
	return map[string]any{
		"index":            index,
		"title":            t.Title,
		"artist":           t.Artist,
		"artwork_ref":      t.ArtworkRef,
		"duration_seconds": t.DurationSeconds,
		"duration":         playback.FormatTime(float64(t.DurationSeconds)),
		"url":              t.URL,
	}
}

// Tracks converts a track list into a list value.
func Tracks(tracks []track.Track) *structpb.ListValue {
	values := make([]any, len(tracks))
	for i, t := range tracks {
		values[i] = TrackFields(i, t)
	}
	lv, err := structpb.NewList(values)
	if err != nil {
		zlog.Warn().Err(err).Msg("notification: failed to build track list")
		return &structpb.ListValue{}
	}
	return lv
}

// TypeOf returns the type field of n.
func TypeOf(n *structpb.Struct) string {
	return n.GetFields()[FieldType].GetStringValue()
}

func build(kind string, fields map[string]any) *structpb.Struct {
	values := map[string]any{FieldType: kind}
	for k, v := range fields {
		values[k] = v
	}
	n, err := structpb.NewStruct(values)
	if err != nil {
		// Only reachable with a field type structpb cannot represent.
		zlog.Warn().Err(err).Msgf("notification: failed to build %s", kind)
		n, _ = structpb.NewStruct(map[string]any{FieldType: kind})
	}
	return n
}
