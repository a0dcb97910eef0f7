package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/19player/internal/app/playback"
	"github.com/osa030/19player/internal/domain/track"
)

type recordingStream struct {
	mu   sync.Mutex
	sent []*structpb.Struct
	err  error
}

func (s *recordingStream) Send(n *structpb.Struct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *recordingStream) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, n := range s.sent {
		out[i] = TypeOf(n)
	}
	return out
}

type blockingStream struct {
	release chan struct{}
}

func (s *blockingStream) Send(*structpb.Struct) error {
	<-s.release
	return nil
}

func seqOf(n *structpb.Struct) uint64 {
	return uint64(n.GetFields()[FieldSequenceNo].GetNumberValue())
}

func TestManager_SubscribeUnsubscribe(t *testing.T) {
	m := NewManager()
	a := m.Subscribe(&recordingStream{})
	b := m.Subscribe(&recordingStream{})

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, m.SubscriberCount())

	m.Unsubscribe(a)
	assert.Equal(t, 1, m.SubscriberCount())

	m.Close()
	assert.Equal(t, 0, m.SubscriberCount())
}

func TestManager_Broadcast(t *testing.T) {
	m := NewManager()
	s1 := &recordingStream{}
	s2 := &recordingStream{err: errors.New("closed")}
	m.Subscribe(s1)
	m.Subscribe(s2)

	m.Broadcast(PlayButton(true))
	m.Broadcast(ResetProgress())

	require.Len(t, s1.sent, 2)
	require.Len(t, s2.sent, 2)
	assert.Equal(t, []string{TypePlayButton, TypeResetProgress}, s1.types())
	assert.Less(t, seqOf(s1.sent[0]), seqOf(s1.sent[1]))
}

func TestManager_BroadcastTimeout(t *testing.T) {
	m := NewManager()
	slow := &blockingStream{release: make(chan struct{})}
	defer close(slow.release)
	fast := &recordingStream{}
	m.Subscribe(slow)
	m.Subscribe(fast)

	start := time.Now()
	m.Broadcast(PlayButton(false))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Len(t, fast.sent, 1)
}

func TestManager_Send(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	id := m.Subscribe(s)

	require.NoError(t, m.Send(id, InitialState(playback.Snapshot{})))
	require.NoError(t, m.Send("unknown", ResetProgress()))

	require.Len(t, s.sent, 1)
	assert.Equal(t, TypeInitialState, TypeOf(s.sent[0]))
	assert.Equal(t, uint64(1), seqOf(s.sent[0]))
}

func TestNotifications(t *testing.T) {
	tr := track.Track{Title: "Song", Artist: "Band", ArtworkRef: "art.jpg", DurationSeconds: 65}

	t.Run("track info", func(t *testing.T) {
		n := TrackInfo(2, tr)
		f := n.GetFields()
		assert.Equal(t, TypeTrackInfo, TypeOf(n))
		assert.Equal(t, 2.0, f["index"].GetNumberValue())
		assert.Equal(t, "Song", f["title"].GetStringValue())
		assert.Equal(t, "Band", f["artist"].GetStringValue())
		assert.Equal(t, "art.jpg", f["artwork_ref"].GetStringValue())
		assert.Equal(t, "01:05", f["duration"].GetStringValue())
	})

	t.Run("progress", func(t *testing.T) {
		n := Progress(50, "02:00")
		assert.Equal(t, 50.0, n.GetFields()["percent"].GetNumberValue())
		assert.Equal(t, "02:00", n.GetFields()["elapsed"].GetStringValue())
	})

	t.Run("volume", func(t *testing.T) {
		n := Volume(0.7)
		assert.InDelta(t, 0.7, n.GetFields()["volume"].GetNumberValue(), 1e-9)
		assert.InDelta(t, 70, n.GetFields()["slider"].GetNumberValue(), 1e-9)
	})

	t.Run("initial state", func(t *testing.T) {
		snap := playback.Snapshot{Index: 1, Track: tr, State: playback.StatePlaying, Volume: 0.5, Position: 30}
		n := InitialState(snap)
		state := n.GetFields()["state"].GetStructValue().GetFields()
		assert.Equal(t, 1.0, state["index"].GetNumberValue())
		assert.True(t, state["playing"].GetBoolValue())
		assert.Equal(t, "00:30", state["elapsed"].GetStringValue())
		assert.Equal(t, "Song", state["track"].GetStructValue().GetFields()["title"].GetStringValue())
	})

	t.Run("tracks", func(t *testing.T) {
		lv := Tracks([]track.Track{tr, tr})
		require.Len(t, lv.GetValues(), 2)
		assert.Equal(t, 1.0, lv.GetValues()[1].GetStructValue().GetFields()["index"].GetNumberValue())
	})
}

func TestDisplay(t *testing.T) {
	m := NewManager()
	s := &recordingStream{}
	m.Subscribe(s)
	d := NewDisplay(m)

	d.UpdateTrackInfo(0, track.Track{Title: "A", DurationSeconds: 10})
	d.ResetProgress()
	d.UpdateProgress(10, "00:01")
	d.SetPlayButtonVisual(true)
	d.UpdateVolume(0.3)

	assert.Equal(t, []string{TypeTrackInfo, TypeResetProgress, TypeProgress, TypePlayButton, TypeVolume}, s.types())
}
