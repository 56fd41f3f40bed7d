package websocket

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
)

// ErrBroadcastDropped is returned when the broadcast queue is full.
var ErrBroadcastDropped = errors.New("broadcast queue full, message dropped")

type message struct {
	team string
	data []byte
}

// Hub fans refresh messages out to subscribed clients. Its maps and
// channels are owned by Run.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	count      atomic.Int64
	metrics    *metrics.Manager
	log        zerolog.Logger
}

// NewHub creates a hub. Call Run before registering clients.
func NewHub(m *metrics.Manager, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		metrics:    m,
		log:        log.With().Str("component", "ws-hub").Logger(),
	}
}

// Run processes registrations and broadcasts until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.updateCount()
			h.log.Debug().Str("client_id", client.id).Str("team", client.team).Msg("client registered")

		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				if !client.wants(msg.team) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					h.log.Warn().Str("client_id", client.id).Msg("client send buffer full, closing connection")
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.updateCount()
	h.log.Debug().Str("client_id", client.id).Msg("client unregistered")
}

func (h *Hub) updateCount() {
	h.count.Store(int64(len(h.clients)))
	h.metrics.SetWebSocketClients(len(h.clients))
}

// add registers client unless the hub has stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// drop unregisters client unless the hub has stopped.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Broadcast queues data for clients subscribed to team. Clients without a
// team filter receive everything.
func (h *Hub) Broadcast(team string, data []byte) error {
	select {
	case h.broadcast <- message{team: strings.ToUpper(team), data: data}:
		return nil
	default:
		return ErrBroadcastDropped
	}
}
