package web

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var errHubClosed = errors.New("websocket hub closed")

// Hub owns the connected browser clients and relays notifications to them.
// It is a single notification subscriber regardless of how many clients are connected.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Encoded notifications to send to every client.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	done chan struct{}
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			zlog.Debug().Msgf("web: client connected: id=%s clients=%d", client.id, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				zlog.Debug().Msgf("web: client disconnected: id=%s clients=%d", client.id, len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				if !client.reply(message) {
					zlog.Debug().Msgf("web: dropping slow client: id=%s", client.id)
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.close()
	_ = client.conn.Close()
}

// Send encodes n and queues it for every client. It implements notification.Stream.
func (h *Hub) Send(n *structpb.Struct) error {
	b, err := protojson.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "failed to encode notification")
	}
	select {
	case h.broadcast <- b:
		return nil
	case <-h.done:
		return errHubClosed
	}
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
