package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19player/internal/app/notification"
	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/playlist"
)

type testEnv struct {
	controller *playback.Controller
	server     *httptest.Server
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()

	notifier := notification.NewManager()
	controller, err := playback.NewController(playlist.Builtin(), nil, notification.NewDisplay(notifier), playback.Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(controller, notifier, token)
	s.Start(ctx)

	server := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return &testEnv{controller: controller, server: server}
}

func (e *testEnv) dial(t *testing.T, header http.Header, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("expected message not received")
	return nil
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, "")

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_State(t *testing.T) {
	env := newTestEnv(t, "")
	env.controller.PlayTrack(2)

	resp, err := http.Get(env.server.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2.0, body["index"])
	assert.Equal(t, true, body["playing"])
	assert.Equal(t, "playing", body["state"])
}

func TestServer_Tracks(t *testing.T) {
	env := newTestEnv(t, "")

	resp, err := http.Get(env.server.URL + "/api/tracks")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 4)
	assert.Equal(t, 3.0, body[3]["index"])
}

func TestServer_WebSocket(t *testing.T) {
	env := newTestEnv(t, "")

	conn, _, err := env.dial(t, nil, "")
	require.NoError(t, err)
	defer conn.Close()

	initial := readMessage(t, conn)
	assert.Equal(t, notification.TypeInitialState, initial[notification.FieldType])

	require.NoError(t, conn.WriteJSON(map[string]any{"command": "select", "value": 2}))

	info := readUntil(t, conn, func(m map[string]any) bool {
		return m[notification.FieldType] == notification.TypeTrackInfo
	})
	assert.Equal(t, 2.0, info["index"])

	readUntil(t, conn, func(m map[string]any) bool {
		return m[notification.FieldType] == notification.TypePlayButton && m["playing"] == true
	})
	assert.Equal(t, 2, env.controller.CurrentIndex())
	assert.True(t, env.controller.IsPlaying())

	require.NoError(t, conn.WriteJSON(map[string]any{"command": "volume", "value": 25}))
	vol := readUntil(t, conn, func(m map[string]any) bool {
		return m[notification.FieldType] == notification.TypeVolume
	})
	assert.InDelta(t, 0.25, vol["volume"], 1e-9)
}

func TestServer_WebSocketRejectsBadCommands(t *testing.T) {
	env := newTestEnv(t, "")

	conn, _, err := env.dial(t, nil, "")
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "unknown command", payload: `{"command":"rewind"}`, want: "unknown command"},
		{name: "index out of range", payload: `{"command":"select","value":9}`, want: "out of range"},
		{name: "fractional index", payload: `{"command":"load","value":1.5}`, want: "out of range"},
		{name: "missing value", payload: `{"command":"seek"}`, want: "requires a value"},
		{name: "volume out of range", payload: `{"command":"volume","value":101}`, want: "0-100"},
		{name: "malformed json", payload: `{"command":`, want: "invalid command JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))
			msg := readMessage(t, conn)
			assert.Equal(t, "error", msg[notification.FieldType])
			assert.Contains(t, msg["message"], tt.want)
		})
	}

	assert.Equal(t, 0, env.controller.CurrentIndex())
	assert.False(t, env.controller.IsPlaying())
}

func TestServer_WebSocketToken(t *testing.T) {
	env := newTestEnv(t, "secret")

	_, resp, err := env.dial(t, nil, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set(ControlTokenHeader, "secret")
	conn, _, err := env.dial(t, header, "")
	require.NoError(t, err)
	conn.Close()

	conn, _, err = env.dial(t, nil, "?token=secret")
	require.NoError(t, err)
	conn.Close()
}
