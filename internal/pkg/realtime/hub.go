package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const (
	sendBufferSize    = 256
	publishBufferSize = 1024
)

// delivery targets either a set of users or, for replies, a single client
type delivery struct {
	userIDs []int64
	client  *Client
	data    []byte
}

// Hub keeps the connected clients of every user and fans events out to them.
// All mutation of the client map happens on the Run goroutine.
type Hub struct {
	clients map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	publish    chan delivery
	done       chan struct{}

	countMu sync.RWMutex
	counts  map[int64]int

	logger zerolog.Logger
}

// NewHub creates a hub; call Run to start it
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan delivery, publishBufferSize),
		done:       make(chan struct{}),
		counts:     make(map[int64]int),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[int64]map[*Client]struct{})
			h.setCounts()
			h.logger.Info().Msg("Realtime hub stopped")
			return

		case c := <-h.register:
			set, ok := h.clients[c.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.userID] = set
			}
			set[c] = struct{}{}
			h.setCounts()
			h.logger.Debug().Int64("userID", c.userID).Msg("Client registered")

		case c := <-h.unregister:
			h.remove(c)

		case d := <-h.publish:
			h.deliver(d)
		}
	}
}

func (h *Hub) remove(c *Client) {
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	h.setCounts()
	h.logger.Debug().Int64("userID", c.userID).Msg("Client unregistered")
}

func (h *Hub) deliver(d delivery) {
	if d.client != nil {
		if _, ok := h.clients[d.client.userID][d.client]; ok {
			h.trySend(d.client, d.data)
		}
		return
	}

	seen := make(map[int64]struct{}, len(d.userIDs))
	for _, userID := range d.userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		for c := range h.clients[userID] {
			h.trySend(c, d.data)
		}
	}
}

// trySend drops the client when its buffer is full
func (h *Hub) trySend(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn().Int64("userID", c.userID).Msg("Dropping slow realtime client")
		h.remove(c)
	}
}

func (h *Hub) setCounts() {
	counts := make(map[int64]int, len(h.clients))
	for id, set := range h.clients {
		counts[id] = len(set)
	}
	h.countMu.Lock()
	h.counts = counts
	h.countMu.Unlock()
}

// Publish queues ev for every connected client of the given users. It never blocks.
func (h *Hub) Publish(userIDs []int64, ev Event) {
	if len(userIDs) == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(ev.Type)).Msg("Failed to marshal realtime event")
		return
	}

	select {
	case h.publish <- delivery{userIDs: append([]int64(nil), userIDs...), data: data}:
	default:
		h.logger.Warn().Str("type", string(ev.Type)).Msg("Realtime publish queue full, event dropped")
	}
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID int64) int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.counts[userID]
}

// Done is closed once Run has returned
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
