package connect

import (
	"context"
	"math"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/osa030/19player/internal/app/notification"
	"github.com/osa030/19player/internal/app/playback"
)

// PlayerService implements the player control RPCs.
type PlayerService struct {
	player   playback.Player
	notifier *notification.Manager

	done      chan struct{}
	closeOnce sync.Once
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(player playback.Player, notifier *notification.Manager) *PlayerService {
	return &PlayerService{
		player:   player,
		notifier: notifier,
		done:     make(chan struct{}),
	}
}

// Close ends every open Subscribe stream.
func (s *PlayerService) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Play handles play requests.
func (s *PlayerService) Play(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.player.Play()
	return s.state(), nil
}

// Pause handles pause requests.
func (s *PlayerService) Pause(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.player.Pause()
	return s.state(), nil
}

// TogglePlay handles play/pause toggle requests.
func (s *PlayerService) TogglePlay(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.player.TogglePlay()
	return s.state(), nil
}

// Next handles next track requests.
func (s *PlayerService) Next(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.player.NextTrack()
	return s.state(), nil
}

// Previous handles previous track requests.
func (s *PlayerService) Previous(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s.player.PreviousTrack()
	return s.state(), nil
}

// LoadTrack handles requests to load a track without playing it.
func (s *PlayerService) LoadTrack(
	ctx context.Context,
	req *connect.Request[wrapperspb.Int32Value],
) (*connect.Response[structpb.Struct], error) {
	index, err := s.trackIndex(req.Msg)
	if err != nil {
		return nil, err
	}
	s.player.LoadTrack(index)
	return s.state(), nil
}

// PlayTrack handles requests to play a specific track.
func (s *PlayerService) PlayTrack(
	ctx context.Context,
	req *connect.Request[wrapperspb.Int32Value],
) (*connect.Response[structpb.Struct], error) {
	index, err := s.trackIndex(req.Msg)
	if err != nil {
		return nil, err
	}
	s.player.PlayTrack(index)
	return s.state(), nil
}

// Seek handles seek requests. The value is a percentage of the current track.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[structpb.Struct], error) {
	percent := req.Msg.GetValue()
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("seek percent must be finite"))
	}
	s.player.SeekTo(percent)
	return s.state(), nil
}

// SetVolume handles volume requests. The value is a 0-100 slider position.
func (s *PlayerService) SetVolume(
	ctx context.Context,
	req *connect.Request[wrapperspb.DoubleValue],
) (*connect.Response[structpb.Struct], error) {
	slider := req.Msg.GetValue()
	if math.IsNaN(slider) || slider < 0 || slider > 100 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.Newf("volume must be within 0-100: %v", slider))
	}
	s.player.SetVolume(playback.VolumeFromSlider(slider))
	return s.state(), nil
}

// GetState returns the current player state.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	return s.state(), nil
}

// ListTracks returns every track of the playlist.
func (s *PlayerService) ListTracks(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.ListValue], error) {
	return connect.NewResponse(notification.Tracks(s.player.Playlist().Tracks())), nil
}

// Subscribe streams notifications, starting with the current state.
func (s *PlayerService) Subscribe(
	ctx context.Context,
	req *connect.Request[emptypb.Empty],
	stream *connect.ServerStream[structpb.Struct],
) error {
	initial := s.notifier.Stamp(notification.InitialState(s.player.Snapshot()))
	if err := stream.Send(initial); err != nil {
		return err
	}

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := s.notifier.Subscribe(adapter)
	defer s.notifier.Unsubscribe(subscriptionID)

	select {
	case <-ctx.Done():
	case <-s.done:
	}
	return nil
}

func (s *PlayerService) state() *connect.Response[structpb.Struct] {
	return connect.NewResponse(notification.State(s.player.Snapshot()))
}

// trackIndex rejects indices outside the playlist.
func (s *PlayerService) trackIndex(v *wrapperspb.Int32Value) (int, error) {
	index := int(v.GetValue())
	if !s.player.Playlist().Contains(index) {
		zlog.Debug().Msgf("connect: rejected track index: index=%d tracks=%d", index, s.player.Playlist().Len())
		return 0, connect.NewError(connect.CodeInvalidArgument,
			errors.Newf("track index out of range: %d (tracks: %d)", index, s.player.Playlist().Len()))
	}
	return index, nil
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// ServerStream is not safe for concurrent sends, so sends are serialized.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[structpb.Struct]
}

func (a *notificationStreamAdapter) Send(n *structpb.Struct) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(n)
}
