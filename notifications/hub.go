// Package notifications delivers transient toasts to the browsers of a portal
// session over websockets.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"

	DefaultDuration = 4000 * time.Millisecond
)

// Toast is a short auto-dismissing message.
type Toast struct {
	Message  string `json:"message"`
	Type     Kind   `json:"type"`
	Duration int64  `json:"duration"` // миллисекунды
}

func NewToast(kind Kind, message string) Toast {
	return Toast{Message: message, Type: kind, Duration: DefaultDuration.Milliseconds()}
}

func Success(message string) Toast { return NewToast(KindSuccess, message) }
func Error(message string) Toast   { return NewToast(KindError, message) }
func Info(message string) Toast    { return NewToast(KindInfo, message) }
func Warning(message string) Toast { return NewToast(KindWarning, message) }

// Message is the frame written to the socket.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const MessageToast = "TOAST"

// Notifier pushes a toast to every connection of a session.
type Notifier interface {
	Notify(sessionID string, toast Toast)
}

// Hub keeps one room per portal session.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("notification client registered", "room", client.room, "clients", len(h.rooms[client.room]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.rooms {
				for client := range clients {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove closes the client's send channel. Callers hold h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.room]
	if !ok || !clients[client] {
		return
	}
	close(client.send)
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, client.room)
		h.logger.Debug("notification room closed", "room", client.room)
	}
}

// Notify sends a toast to the session's room. Sessions without a live
// connection simply miss it; the HTTP response carries the toast too.
func (h *Hub) Notify(sessionID string, toast Toast) {
	h.broadcast(sessionID, Message{Type: MessageToast, Payload: toast, RoomID: sessionID})
}

func (h *Hub) broadcast(room string, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal notification", "room", room, "error", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("notification client send buffer full, skipping", "room", room)
		}
	}
}

// RoomSize reports how many connections a session has open.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// CloseRoom disconnects every client of a session, e.g. on logout.
func (h *Hub) CloseRoom(room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[room] {
		h.remove(client)
	}
}
