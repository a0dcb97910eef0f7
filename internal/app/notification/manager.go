// Package notification fans player updates out to remote subscribers.
package notification

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/structpb"
)

// sendTimeout bounds each subscriber send during Broadcast.
const sendTimeout = 500 * time.Millisecond

// Stream receives notifications for one subscriber.
type Stream interface {
	Send(*structpb.Struct) error
}

type subscription struct {
	id     string
	stream Stream
}

// Manager fans notifications out to subscribers.
// Every notification leaving the manager carries a sequence number that is unique and increasing.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    atomic.Uint64
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe registers stream and returns its subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.subscriptions[id] = &subscription{id: id, stream: stream}
	count := len(m.subscriptions)
	m.mu.Unlock()

	zlog.Debug().Msgf("notification: subscribed: id=%s subscribers=%d", id, count)
	return id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	delete(m.subscriptions, subscriptionID)
	count := len(m.subscriptions)
	m.mu.Unlock()

	zlog.Debug().Msgf("notification: unsubscribed: id=%s subscribers=%d", subscriptionID, count)
}

// NextSequenceNo returns the next sequence number.
func (m *Manager) NextSequenceNo() uint64 {
	return m.sequenceNo.Add(1)
}

// Stamp sets the sequence_no field of n to the next sequence number.
func (m *Manager) Stamp(n *structpb.Struct) *structpb.Struct {
	if n.Fields == nil {
		n.Fields = make(map[string]*structpb.Value)
	}
	n.Fields[FieldSequenceNo] = structpb.NewNumberValue(float64(m.NextSequenceNo()))
	return n
}

// Broadcast stamps n and sends it to every subscriber in parallel.
// It returns once each send has finished or been abandoned after sendTimeout.
func (m *Manager) Broadcast(n *structpb.Struct) {
	m.Stamp(n)

	var wg sync.WaitGroup
	for _, sub := range m.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.deliver(sub, n)
		}()
	}
	wg.Wait()
}

// Send stamps n and sends it to a single subscriber. Unknown IDs are ignored.
func (m *Manager) Send(subscriptionID string, n *structpb.Struct) error {
	m.mu.RLock()
	sub, ok := m.subscriptions[subscriptionID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return sub.stream.Send(m.Stamp(n))
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close drops every subscription.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.subscriptions)
}

func (m *Manager) snapshot() []*subscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	return subs
}

// deliver sends n to sub, giving up after sendTimeout. A send that outlives the
// timeout keeps running in the background and its result is dropped.
func (m *Manager) deliver(sub *subscription, n *structpb.Struct) {
	done := make(chan error, 1)
	go func() {
		done <- sub.stream.Send(n)
	}()

	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			zlog.Debug().Err(err).Msgf("notification: send failed: id=%s", sub.id)
		}
	case <-timer.C:
		zlog.Debug().Msgf("notification: send timed out: id=%s", sub.id)
	}
}
