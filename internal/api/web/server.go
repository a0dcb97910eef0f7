// Package web serves the browser surface: JSON state endpoints and a websocket
// carrying player notifications out and commands in.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/osa030/19player/internal/app/notification"
	"github.com/osa030/19player/internal/app/playback"
)

// ControlTokenHeader is the header carrying the control token. Browsers may use the token query parameter instead.
const ControlTokenHeader = "X-Control-Token"

var upgrader = websocket.Upgrader{
	// The player is served to the local network; any origin may connect.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server serves the web surface.
type Server struct {
	player   playback.Player
	notifier *notification.Manager
	hub      *Hub
	token    string
}

// NewServer creates a server. Start must be called before serving websocket clients.
func NewServer(player playback.Player, notifier *notification.Manager, token string) *Server {
	return &Server{
		player:   player,
		notifier: notifier,
		hub:      NewHub(),
		token:    token,
	}
}

// Start runs the hub and subscribes it to notifications until ctx is done.
func (s *Server) Start(ctx context.Context) {
	subscriptionID := s.notifier.Subscribe(s.hub)
	go func() {
		s.hub.Run(ctx)
		s.notifier.Unsubscribe(subscriptionID)
	}()
}

// Router creates a chi.Router with the web routes.
func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/api/state", s.handleState)
	r.Get("/api/tracks", s.handleTracks)
	r.Get("/ws", s.handleWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "19player",
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, notification.StateFields(s.player.Snapshot()))
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	tracks := s.player.Playlist().Tracks()
	out := make([]map[string]any, len(tracks))
	for i, t := range tracks {
		out[i] = notification.TrackFields(i, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "missing or invalid control token"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Debug().Err(err).Msg("web: ws upgrade failed")
		return
	}

	client := newClient(s.hub, conn, s.handleMessage)

	// Queued before registering so it is always the first message.
	initial, err := protojson.Marshal(s.notifier.Stamp(notification.InitialState(s.player.Snapshot())))
	if err == nil {
		client.reply(initial)
	}

	if !s.hub.add(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// handleMessage applies one command and returns an error reply, or nil on success.
func (s *Server) handleMessage(message []byte) []byte {
	cmd, err := parseCommand(message)
	if err == nil {
		err = cmd.apply(s.player)
	}
	if err == nil {
		return nil
	}

	zlog.Debug().Err(err).Msg("web: rejected command")
	b, _ := json.Marshal(map[string]any{
		notification.FieldType: "error",
		"command":              cmd.Command,
		"message":              err.Error(),
	})
	return b
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	got := r.Header.Get(ControlTokenHeader)
	if got == "" {
		got = r.URL.Query().Get("token")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Debug().Err(err).Msg("web: failed to write response")
	}
}
