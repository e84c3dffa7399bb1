// Package realtime implements the WebSocket layer: connection hub,
// conversation rooms, chat events, and voice translation sessions.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const hubLogPrefix = "realtime:hub"

// Frame is the wire format for every WebSocket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected clients and conversation room membership. One mutex
// guards both maps; all emit paths go through the client send channels so
// the hub never writes to a socket directly.
type Hub struct {
	mu      sync.Mutex
	clients map[int64]*Client
	rooms   map[string]map[*Client]bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]*Client),
		rooms:   make(map[string]map[*Client]bool),
	}
}

// Register adds a client, replacing any previous connection for the same user.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.clients[c.UserID]
	h.clients[c.UserID] = c
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.Close()
	}
	slog.Info(fmt.Sprintf("%s - user %d connected", hubLogPrefix, c.UserID))
}

// Unregister removes a client and drops it from all rooms. A newer
// connection for the same user is left in place.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == c {
		delete(h.clients, c.UserID)
	}
	for room, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()
	slog.Info(fmt.Sprintf("%s - user %d disconnected", hubLogPrefix, c.UserID))
}

// Join adds a client to a conversation room.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	members := h.rooms[room]
	if members == nil {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
	h.mu.Unlock()
}

// Leave removes a client from a conversation room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	if members := h.rooms[room]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// UserInRoom reports whether the user has a client joined to the room.
func (h *Hub) UserInRoom(room string, userID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[room] {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// EmitToRoom sends an event to every client in a room, skipping exclude.
func (h *Hub) EmitToRoom(room, event string, data any, exclude *Client) {
	payload, err := encodeFrame(event, data)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - encode %s: %v", hubLogPrefix, event, err))
		return
	}

	h.mu.Lock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.Send(payload)
	}
}

// EmitToUser sends an event to a user's client, if connected. Returns false
// when the user has no active connection.
func (h *Hub) EmitToUser(userID int64, event string, data any) bool {
	payload, err := encodeFrame(event, data)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - encode %s: %v", hubLogPrefix, event, err))
		return false
	}

	h.mu.Lock()
	c := h.clients[userID]
	h.mu.Unlock()

	if c == nil {
		return false
	}
	c.Send(payload)
	return true
}

// ConnectedUsers returns the number of connected clients.
func (h *Hub) ConnectedUsers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
