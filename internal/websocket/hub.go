// Package websocket pushes activity events to connected users.
package websocket

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dom/libriverse/internal/domain"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/metrics"
)

// Hub tracks open connections per user. A user may hold several
// connections (tabs, devices); every one of them receives the user's events.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, conns := range h.clients {
				for client := range conns {
					client.Close()
					metrics.WebSocketConnections.Dec()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				client.Close()
			} else {
				conns, ok := h.clients[client.userID]
				if !ok {
					conns = make(map[*Client]bool)
					h.clients[client.userID] = conns
				}
				conns[client] = true
				metrics.WebSocketConnections.Inc()
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok && conns[client] {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
				client.Close()
				metrics.WebSocketConnections.Dec()
			}
			h.mu.Unlock()
		}
	}
}

// Stop closes every connection and blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister is safe to call after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// NotifyUser delivers event to every connection of userID. Delivery is best
// effort: offline users and full client buffers lose the event.
func (h *Hub) NotifyUser(userID uuid.UUID, event domain.ActivityEvent) {
	msg, err := NewMessage(MessageType(event.Type), event)
	if err != nil {
		logging.Error().Err(err).Str("component", "websocket.NotifyUser").Msg("failed to build message")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Str("component", "websocket.NotifyUser").Msg("failed to marshal message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.clients[userID]
	if len(conns) == 0 {
		metrics.ActivityEventsTotal.WithLabelValues(string(event.Type), "offline").Inc()
		return
	}

	for client := range conns {
		if client.trySend(data) {
			metrics.ActivityEventsTotal.WithLabelValues(string(event.Type), "delivered").Inc()
		} else {
			metrics.ActivityEventsTotal.WithLabelValues(string(event.Type), "dropped").Inc()
			logging.Warn().
				Str("component", "websocket.NotifyUser").
				Str("user_id", userID.String()).
				Msg("client buffer full, dropping event")
		}
	}
}

// ConnectionCount returns the number of open connections for userID.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
