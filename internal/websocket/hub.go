package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrClientClosed is returned when sending to a closed client
	ErrClientClosed = errors.New("client is closed")
	// ErrSlowConsumer is returned when a client's outbox is full
	ErrSlowConsumer = errors.New("client outbox is full")
)

// ClientInterface is a connection the hub can deliver to
type ClientInterface interface {
	ID() string
	UserID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// Hub fans events out to every open connection of a user and numbers them
// per user. It is safe for concurrent use.
//
// Only users with an open connection keep a sequence entry. clock counts every
// broadcast across all users and seeds a user's sequence when their first
// connection arrives, so per-user numbers never go backwards and a client that
// reconnects after missing events always sees a different ready seq.
type Hub struct {
	mu    sync.Mutex
	users map[uuid.UUID]map[string]ClientInterface
	seq   map[uuid.UUID]uint64
	clock uint64
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		users: make(map[uuid.UUID]map[string]ClientInterface),
		seq:   make(map[uuid.UUID]uint64),
	}
}

// Register adds a client and greets it with the user's current seq
func (h *Hub) Register(client ClientInterface) {
	userID := client.UserID()

	h.mu.Lock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[string]ClientInterface)
	}
	h.users[userID][client.ID()] = client
	seq, ok := h.seq[userID]
	if !ok {
		seq = h.clock
		h.seq[userID] = seq
	}
	dropped := h.deliver([]ClientInterface{client}, sessionReady(seq))
	h.mu.Unlock()

	log.Debug().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Uint64("seq", seq).
		Msg("WebSocket client registered")
	closeDropped(dropped)
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(client)
}

func (h *Hub) remove(client ClientInterface) {
	userID := client.UserID()
	clients := h.users[userID]
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.users, userID)
		delete(h.seq, userID)
	}
}

// Broadcast stamps the next seq on event and sends it to the user's connections.
// Events for a user without connections still advance the hub clock.
func (h *Hub) Broadcast(userID uuid.UUID, event Event) {
	h.mu.Lock()
	h.clock++
	if seq, ok := h.seq[userID]; ok {
		h.seq[userID] = seq + 1
		event.Seq = seq + 1
	} else {
		event.Seq = h.clock
	}
	targets := make([]ClientInterface, 0, len(h.users[userID]))
	for _, c := range h.users[userID] {
		targets = append(targets, c)
	}
	dropped := h.deliver(targets, event)
	h.mu.Unlock()

	if len(targets) > 0 {
		log.Debug().
			Str("user_id", userID.String()).
			Str("event_type", event.Type).
			Uint64("seq", event.Seq).
			Int("client_count", len(targets)).
			Msg("Broadcast event")
	}
	closeDropped(dropped)
}

// deliver queues event on each client while h.mu is held, which keeps a user's
// events in seq order. Client.Send never blocks. Clients that cannot accept the
// frame are removed and returned for closing outside the lock.
func (h *Hub) deliver(targets []ClientInterface, event Event) []ClientInterface {
	if len(targets) == 0 {
		return nil
	}
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		return nil
	}

	var dropped []ClientInterface
	for _, c := range targets {
		if err := c.Send(data); err != nil {
			log.Warn().
				Err(err).
				Str("user_id", c.UserID().String()).
				Str("client_id", c.ID()).
				Msg("Dropping WebSocket client")
			h.remove(c)
			dropped = append(dropped, c)
		}
	}
	return dropped
}

func closeDropped(clients []ClientInterface) {
	for _, c := range clients {
		_ = c.Close()
	}
}

// Seq returns the seq a new connection of the user would be greeted with
func (h *Hub) Seq(userID uuid.UUID) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seq, ok := h.seq[userID]; ok {
		return seq
	}
	return h.clock
}

// ClientCount returns the number of open connections of a user
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users[userID])
}

// TotalClientCount returns the number of open connections across all users
func (h *Hub) TotalClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, clients := range h.users {
		total += len(clients)
	}
	return total
}

// Shutdown closes every connection
func (h *Hub) Shutdown() {
	h.mu.Lock()
	var all []ClientInterface
	for _, clients := range h.users {
		for _, c := range clients {
			all = append(all, c)
		}
	}
	h.users = make(map[uuid.UUID]map[string]ClientInterface)
	h.seq = make(map[uuid.UUID]uint64)
	h.mu.Unlock()

	for _, c := range all {
		_ = c.Close()
	}
	if len(all) > 0 {
		log.Info().Int("clients", len(all)).Msg("Closed WebSocket clients")
	}
}
