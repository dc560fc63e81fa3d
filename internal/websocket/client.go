package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// EventHandler receives every inbound event of a connection. Handlers run
// to completion on the connection's reader goroutine; storage calls are
// the only blocking points.
type EventHandler interface {
	HandleEvent(ctx context.Context, c *Client, evt *Event)
}

// Client owns one live connection: its identity, its room memberships and
// the reader/writer pumps.
type Client struct {
	id      string
	hub     *Hub
	handler EventHandler
	conn    *websocket.Conn
	send    chan []byte

	// userID is the optional identity presented at connect time; empty
	// means anonymous.
	userID string

	// groupID is set for connections bound to a group chat channel; such
	// connections only speak sendMessage.
	groupID string

	mu    sync.RWMutex
	rooms map[string]bool

	ctx        context.Context
	cancel     context.CancelFunc
	closed     int32
	sendClosed int32
}

func NewClient(hub *Hub, handler EventHandler, conn *websocket.Conn, userID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		id:      uuid.New().String(),
		hub:     hub,
		handler: handler,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		rooms:   make(map[string]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) GroupID() string {
	return c.groupID
}

func (c *Client) addRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = true
}

func (c *Client) removeRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, room)
}

func (c *Client) joinedRooms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client as disconnected exactly once.
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

// shutdown stops the send path and releases both pumps. The send channel
// is never closed: a broadcaster may sit between its sendClosed check and
// the enqueue, and closing the channel under it would panic the process.
// Abandoned channels are reclaimed by the collector.
func (c *Client) shutdown() {
	atomic.StoreInt32(&c.sendClosed, 1)
	c.close()
}

// queue enqueues an already-encoded frame for delivery. A full send
// buffer drops the client rather than blocking the broadcaster.
func (c *Client) queue(data []byte) bool {
	if c.isClosed() || atomic.LoadInt32(&c.sendClosed) == 1 {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		slog.Warn("Send buffer full, dropping client", "clientID", c.id, "userID", c.userID)
		c.shutdown()
		return false
	}
}

// SendEvent encodes and enqueues an outbound event for this connection
// only.
func (c *Client) SendEvent(event string, payload interface{}) error {
	data, err := EncodeEvent(event, payload)
	if err != nil {
		return err
	}
	c.queue(data)
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.close()

		select {
		case c.hub.unregister <- c:
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending unregister request", "clientID", c.id, "userID", c.userID)
		}

		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.userID, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.userID, "error", err)
			}
			break
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil || evt.Event == "" {
			slog.Warn("Dropping malformed frame", "clientID", c.id, "userID", c.userID, "error", err)
			continue
		}

		// Errors never escape a handler; a failed event is logged inside
		// and the connection stays up.
		c.handler.HandleEvent(c.ctx, c, &evt)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "error", err)
				return
			}

		case <-ticker.C:
			if c.isClosed() {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "error", err)
				return
			}

		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
