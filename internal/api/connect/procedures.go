// Package connect provides the Connect RPC player control service.
//
// Messages are protobuf well-known types, so the service needs no generated code:
// commands take Empty, Int32Value or DoubleValue and answer with a state Struct.
package connect

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PlayerServiceName is the fully-qualified name of the player service.
const PlayerServiceName = "player.v1.PlayerService"

// Procedure paths of the player service.
const (
	PlayerServicePlayProcedure       = "/player.v1.PlayerService/Play"
	PlayerServicePauseProcedure      = "/player.v1.PlayerService/Pause"
	PlayerServiceTogglePlayProcedure = "/player.v1.PlayerService/TogglePlay"
	PlayerServiceNextProcedure       = "/player.v1.PlayerService/Next"
	PlayerServicePreviousProcedure   = "/player.v1.PlayerService/Previous"
	PlayerServiceLoadTrackProcedure  = "/player.v1.PlayerService/LoadTrack"
	PlayerServicePlayTrackProcedure  = "/player.v1.PlayerService/PlayTrack"
	PlayerServiceSeekProcedure       = "/player.v1.PlayerService/Seek"
	PlayerServiceSetVolumeProcedure  = "/player.v1.PlayerService/SetVolume"
	PlayerServiceGetStateProcedure   = "/player.v1.PlayerService/GetState"
	PlayerServiceListTracksProcedure = "/player.v1.PlayerService/ListTracks"
	PlayerServiceSubscribeProcedure  = "/player.v1.PlayerService/Subscribe"
)

// NewPlayerServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path to mount the handler on.
func NewPlayerServiceHandler(svc *PlayerService, opts ...connect.HandlerOption) (string, http.Handler) {
	handlers := map[string]http.Handler{
		PlayerServicePlayProcedure:       connect.NewUnaryHandler(PlayerServicePlayProcedure, svc.Play, opts...),
		PlayerServicePauseProcedure:      connect.NewUnaryHandler(PlayerServicePauseProcedure, svc.Pause, opts...),
		PlayerServiceTogglePlayProcedure: connect.NewUnaryHandler(PlayerServiceTogglePlayProcedure, svc.TogglePlay, opts...),
		PlayerServiceNextProcedure:       connect.NewUnaryHandler(PlayerServiceNextProcedure, svc.Next, opts...),
		PlayerServicePreviousProcedure:   connect.NewUnaryHandler(PlayerServicePreviousProcedure, svc.Previous, opts...),
		PlayerServiceLoadTrackProcedure:  connect.NewUnaryHandler(PlayerServiceLoadTrackProcedure, svc.LoadTrack, opts...),
		PlayerServicePlayTrackProcedure:  connect.NewUnaryHandler(PlayerServicePlayTrackProcedure, svc.PlayTrack, opts...),
		PlayerServiceSeekProcedure:       connect.NewUnaryHandler(PlayerServiceSeekProcedure, svc.Seek, opts...),
		PlayerServiceSetVolumeProcedure:  connect.NewUnaryHandler(PlayerServiceSetVolumeProcedure, svc.SetVolume, opts...),
		PlayerServiceGetStateProcedure:   connect.NewUnaryHandler(PlayerServiceGetStateProcedure, svc.GetState, opts...),
		PlayerServiceListTracksProcedure: connect.NewUnaryHandler(PlayerServiceListTracksProcedure, svc.ListTracks, opts...),
		PlayerServiceSubscribeProcedure:  connect.NewServerStreamHandler(PlayerServiceSubscribeProcedure, svc.Subscribe, opts...),
	}

	return "/" + PlayerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// PlayerServiceClient is a client for the player service.
type PlayerServiceClient struct {
	play       *connect.Client[emptypb.Empty, structpb.Struct]
	pause      *connect.Client[emptypb.Empty, structpb.Struct]
	togglePlay *connect.Client[emptypb.Empty, structpb.Struct]
	next       *connect.Client[emptypb.Empty, structpb.Struct]
	previous   *connect.Client[emptypb.Empty, structpb.Struct]
	loadTrack  *connect.Client[wrapperspb.Int32Value, structpb.Struct]
	playTrack  *connect.Client[wrapperspb.Int32Value, structpb.Struct]
	seek       *connect.Client[wrapperspb.DoubleValue, structpb.Struct]
	setVolume  *connect.Client[wrapperspb.DoubleValue, structpb.Struct]
	getState   *connect.Client[emptypb.Empty, structpb.Struct]
	listTracks *connect.Client[emptypb.Empty, structpb.ListValue]
	subscribe  *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewPlayerServiceClient creates a client for the service at baseURL.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &PlayerServiceClient{
		play:       connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServicePlayProcedure, opts...),
		pause:      connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServicePauseProcedure, opts...),
		togglePlay: connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServiceTogglePlayProcedure, opts...),
		next:       connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServiceNextProcedure, opts...),
		previous:   connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServicePreviousProcedure, opts...),
		loadTrack:  connect.NewClient[wrapperspb.Int32Value, structpb.Struct](httpClient, baseURL+PlayerServiceLoadTrackProcedure, opts...),
		playTrack:  connect.NewClient[wrapperspb.Int32Value, structpb.Struct](httpClient, baseURL+PlayerServicePlayTrackProcedure, opts...),
		seek:       connect.NewClient[wrapperspb.DoubleValue, structpb.Struct](httpClient, baseURL+PlayerServiceSeekProcedure, opts...),
		setVolume:  connect.NewClient[wrapperspb.DoubleValue, structpb.Struct](httpClient, baseURL+PlayerServiceSetVolumeProcedure, opts...),
		getState:   connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		listTracks: connect.NewClient[emptypb.Empty, structpb.ListValue](httpClient, baseURL+PlayerServiceListTracksProcedure, opts...),
		subscribe:  connect.NewClient[emptypb.Empty, structpb.Struct](httpClient, baseURL+PlayerServiceSubscribeProcedure, opts...),
	}
}
