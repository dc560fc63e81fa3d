package websocket

import (
	"context"
	"log/slog"
	"sync"

	"forum-relay/internal/services"
)

// Hub is the room registry and broadcast fabric. It maps namespaced room
// names to the connections currently joined, and owns the presence
// tracker. Joins are idempotent, leaves of absent members are no-ops, and
// broadcasting to an empty room does nothing.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	presence *PresenceTracker

	// Optional Redis presence mirror; nil disables mirroring.
	redis *services.RedisService

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(redisService *services.RedisService) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   NewPresenceTracker(),
		redis:      redisService,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			slog.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) Presence() *PresenceTracker {
	return h.presence
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	slog.Info("Client registered", "clientID", client.id, "userID", client.userID)

	event, counts := h.presence.Connect(client.userID, client.id)
	h.BroadcastAll(event, counts)

	if h.redis != nil && client.userID != "" {
		if err := h.redis.SetUserOnline(h.ctx, client.userID); err != nil {
			slog.Error("Failed to mirror user online", "userID", client.userID, "error", err)
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	for _, room := range client.joinedRooms() {
		h.removeFromRoom(client, room)
	}
	h.mu.Unlock()

	client.shutdown()
	slog.Info("Client unregistered", "clientID", client.id, "userID", client.userID)

	event, counts := h.presence.Disconnect(client.userID, client.id)
	h.BroadcastAll(event, counts)

	if h.redis != nil && client.userID != "" {
		if err := h.redis.SetUserOffline(h.ctx, client.userID); err != nil {
			slog.Error("Failed to mirror user offline", "userID", client.userID, "error", err)
		}
	}
}

// Join adds the connection to a room. Joining a room twice leaves the
// membership unchanged.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.addRoom(room)
}

// Leave removes the connection from a room; leaving a room the connection
// is not in is a no-op.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromRoom(client, room)
	client.removeRoom(room)
}

// removeFromRoom must be called with h.mu held.
func (h *Hub) removeFromRoom(client *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// RoomSize reports the current membership count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastRoom delivers an event to every connection currently in the
// room. A recipient may have disconnected between recipient resolution and
// dispatch; broadcasting to a room that just became empty is a no-op, not
// an error.
func (h *Hub) BroadcastRoom(room, event string, payload interface{}) {
	data, err := EncodeEvent(event, payload)
	if err != nil {
		slog.Error("Failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		client.queue(data)
	}
}

// BroadcastAll delivers an event to every connection regardless of rooms.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	data, err := EncodeEvent(event, payload)
	if err != nil {
		slog.Error("Failed to encode event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		client.queue(data)
	}
}
