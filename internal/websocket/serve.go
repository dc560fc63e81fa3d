package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"forum-relay/internal/rooms"
)

// ServeWS upgrades a global-channel connection and starts its pumps.
// Presence registration happens exactly once, inside hub registration.
func ServeWS(hub *Hub, session *Session, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := NewClient(hub, session, conn, userID)
	if !register(hub, client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ServeGroupChat upgrades a connection bound to one group chat channel,
// joins it to the group room and primes it with a page of history.
func ServeGroupChat(hub *Hub, session *Session, w http.ResponseWriter, r *http.Request, groupID string, page int, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "groupID", groupID, "error", err)
		return
	}

	client := NewClient(hub, session, conn, userID)
	client.groupID = groupID
	if !register(hub, client) {
		conn.Close()
		return
	}

	hub.Join(client, rooms.Group(groupID))

	go client.writePump()
	go client.readPump()

	session.PrimeHistory(r.Context(), client, page)
}

func register(hub *Hub, client *Client) bool {
	select {
	case hub.register <- client:
		return true
	case <-time.After(5 * time.Second):
		slog.Error("Timeout sending registration request", "clientID", client.id, "userID", client.userID)
		return false
	case <-hub.ctx.Done():
		return false
	}
}
