package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MessageTypeNotification tags a pushed broadcast
const MessageTypeNotification = "notification"

// Message is the frame pushed to connected students
type Message struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Hub keeps the connected students and fans notifications out to them
type Hub struct {
	// Registered clients by student ID. A student may hold several tabs open.
	clients map[int64]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for studentID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, studentID)
	}
	h.logger.Info().Msg("Notification hub stopped")
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.studentID]; !ok {
		h.clients[client.studentID] = make(map[*Client]bool)
	}
	h.clients[client.studentID][client] = true

	h.logger.Info().
		Int64("studentID", client.studentID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.studentID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.studentID)
	}

	h.logger.Info().
		Int64("studentID", client.studentID).
		Msg("Client unregistered")
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal notification for push")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, set := range h.clients {
		for client := range set {
			select {
			case client.send <- data:
				delivered++
			default:
				// Slow consumer, drop it; the notification stays in the database.
				h.removeLocked(client)
			}
		}
	}

	h.logger.Debug().Int("delivered", delivered).Msg("Notification pushed")
}

// PublishNotification queues a broadcast for every connected student. It
// never blocks once the hub has stopped.
func (h *Hub) PublishNotification(message string, createdAt time.Time) {
	msg := &Message{Type: MessageTypeNotification, Message: message, CreatedAt: createdAt}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount returns the number of open connections of a student
func (h *Hub) ClientCount(studentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[studentID])
}

// enqueue hands a client to the hub unless it has stopped
func (h *Hub) enqueue(ch chan *Client, client *Client) bool {
	select {
	case ch <- client:
		return true
	case <-h.done:
		return false
	}
}
