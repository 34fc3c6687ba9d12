package server

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sereneai/chat-gateway/internal/chat"
	"github.com/sereneai/chat-gateway/internal/observability"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The page is served same-origin; cross-origin subscribers are fine
		// for a read-only event stream.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Event is one message on the page's event stream. Append events drive
// re-renders; alert events are the Go rendition of the blocking alert dialog.
type Event struct {
	Type     string         `json:"type"` // "append" or "alert"
	Messages []chat.Message `json:"messages,omitempty"`
	Alert    string         `json:"alert,omitempty"`
}

// AppendEvent builds a re-render event from newly appended messages.
func AppendEvent(msgs []chat.Message) Event {
	return Event{Type: "append", Messages: msgs}
}

// AlertEvent builds a user-visible alert event.
func AlertEvent(message string) Event {
	return Event{Type: "alert", Alert: message}
}

// EventHub fans events out to connected pages over websockets.
type EventHub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
	logger  zerolog.Logger
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]*websocket.Conn),
		logger:  observability.WithComponent("events"),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *EventHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	observability.EventClientConnected()
	h.logger.Debug().Str("client_id", id).Msg("event client connected")

	// The stream is one-way; the read loop only notices disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(id)
}

// Broadcast delivers one event to every connected client. Clients that fail
// to accept the write are dropped.
func (h *EventHub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Debug().Err(err).Str("client_id", id).Msg("dropping event client")
			conn.Close()
			delete(h.clients, id)
			observability.EventClientDisconnected()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EventHub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
		observability.EventClientDisconnected()
		h.logger.Debug().Str("client_id", id).Msg("event client disconnected")
	}
}
