package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one message pushed to connected UI clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// EventHub broadcasts voice and session events to websocket clients. Slow
// clients are dropped rather than allowed to stall the pipeline.
type EventHub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
}

// NewEventHub creates the hub.
func NewEventHub() *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			// The server only listens on loopback.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan Event),
	}
}

// HandleWS handles GET /api/events
func (h *EventHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}

	send := make(chan Event, 16)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	slog.Debug("Event client connected", "remote", conn.RemoteAddr())

	go h.writeLoop(conn, send)
	h.readLoop(conn)
}

func (h *EventHub) writeLoop(conn *websocket.Conn, send chan Event) {
	for ev := range send {
		if err := conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
			break
		}
		if err := conn.WriteJSON(ev); err != nil {
			break
		}
	}
	h.drop(conn)
}

// readLoop discards client messages and detects disconnects.
func (h *EventHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *EventHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	send, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
		slog.Debug("Event client disconnected", "remote", conn.RemoteAddr())
	}
}

// Broadcast pushes an event to every connected client.
func (h *EventHub) Broadcast(eventType string, payload any) {
	ev := Event{Type: eventType, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- ev:
		default:
			// Client can't keep up; the write loop will clean it up once
			// it drains.
			slog.Warn("Dropping event for slow client", "remote", conn.RemoteAddr(), "type", eventType)
		}
	}
}

// Shutdown disconnects all clients.
func (h *EventHub) Shutdown() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		h.drop(conn)
	}
}
