package connect

import (
	"context"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func callEmpty(ctx context.Context, c *connect.Client[emptypb.Empty, structpb.Struct]) (*structpb.Struct, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func callIndex(ctx context.Context, c *connect.Client[wrapperspb.Int32Value, structpb.Struct], index int) (*structpb.Struct, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(wrapperspb.Int32(int32(index))))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func callDouble(ctx context.Context, c *connect.Client[wrapperspb.DoubleValue, structpb.Struct], v float64) (*structpb.Struct, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(wrapperspb.Double(v)))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// Play starts playback.
func (c *PlayerServiceClient) Play(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.play)
}

// Pause pauses playback.
func (c *PlayerServiceClient) Pause(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.pause)
}

// TogglePlay toggles between playing and paused.
func (c *PlayerServiceClient) TogglePlay(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.togglePlay)
}

// Next plays the next track.
func (c *PlayerServiceClient) Next(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.next)
}

// Previous plays the previous track.
func (c *PlayerServiceClient) Previous(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.previous)
}

// LoadTrack loads a track without playing it.
func (c *PlayerServiceClient) LoadTrack(ctx context.Context, index int) (*structpb.Struct, error) {
	return callIndex(ctx, c.loadTrack, index)
}

// PlayTrack loads and plays a track.
func (c *PlayerServiceClient) PlayTrack(ctx context.Context, index int) (*structpb.Struct, error) {
	return callIndex(ctx, c.playTrack, index)
}

// Seek moves to percent of the current track.
func (c *PlayerServiceClient) Seek(ctx context.Context, percent float64) (*structpb.Struct, error) {
	return callDouble(ctx, c.seek, percent)
}

// SetVolume sets the volume from a 0-100 slider value.
func (c *PlayerServiceClient) SetVolume(ctx context.Context, slider float64) (*structpb.Struct, error) {
	return callDouble(ctx, c.setVolume, slider)
}

// GetState returns the current state.
func (c *PlayerServiceClient) GetState(ctx context.Context) (*structpb.Struct, error) {
	return callEmpty(ctx, c.getState)
}

// ListTracks returns the playlist.
func (c *PlayerServiceClient) ListTracks(ctx context.Context) (*structpb.ListValue, error) {
	res, err := c.listTracks.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// Subscribe opens the notification stream.
func (c *PlayerServiceClient) Subscribe(ctx context.Context) (*connect.ServerStreamForClient[structpb.Struct], error) {
	return c.subscribe.CallServerStream(ctx, connect.NewRequest(&emptypb.Empty{}))
}
