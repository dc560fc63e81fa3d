package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"forum-relay/internal/rooms"
	"forum-relay/internal/services"
)

// Session wires inbound events to the chat store, the notification router
// and the room registry. One Session instance serves all connections;
// per-connection state lives on the Client.
type Session struct {
	hub             *Hub
	chat            *services.ChatService
	notifications   *services.NotificationService
	historyPageSize int
}

func NewSession(
	hub *Hub,
	chat *services.ChatService,
	notifications *services.NotificationService,
	historyPageSize int,
) *Session {
	return &Session{
		hub:             hub,
		chat:            chat,
		notifications:   notifications,
		historyPageSize: historyPageSize,
	}
}

func (s *Session) HandleEvent(ctx context.Context, c *Client, evt *Event) {
	if c.groupID != "" {
		s.handleChatEvent(ctx, c, evt)
		return
	}

	switch evt.Event {
	case EventJoinRoom:
		var p RoomPayload
		if !decode(c, evt, &p) || p.RoomID == "" {
			return
		}
		s.hub.Join(c, rooms.Post(p.RoomID))

	case EventLeaveRoom:
		var p RoomPayload
		if !decode(c, evt, &p) || p.RoomID == "" {
			return
		}
		s.hub.Leave(c, rooms.Post(p.RoomID))

	case EventJoin:
		var p UserPayload
		if !decode(c, evt, &p) || p.Username == "" {
			return
		}
		s.hub.Join(c, rooms.User(p.Username))

	case EventLeave:
		var p UserPayload
		if !decode(c, evt, &p) || p.Username == "" {
			return
		}
		s.hub.Leave(c, rooms.User(p.Username))

	case EventNewComment, EventNewReply:
		// Pure relay: the payload goes to the post's room verbatim, no
		// persistence.
		var p PostPayload
		if !decode(c, evt, &p) || p.PostID == "" {
			return
		}
		s.hub.BroadcastRoom(rooms.Post(p.PostID), evt.Event, evt.Data)

	case EventNewReport:
		s.notifications.RouteReport(ctx, evt.Data)

	case EventNewCommentNotification:
		var p NotificationPayload
		if !decode(c, evt, &p) {
			return
		}
		if p.NewCommentNotification.CommentID == "" {
			p.NewCommentNotification.CommentID = p.CommentID
		}
		s.notifications.RouteComment(ctx, &p.NewCommentNotification)

	default:
		slog.Debug("Ignoring unknown event", "event", evt.Event, "clientID", c.id)
	}
}

func (s *Session) handleChatEvent(ctx context.Context, c *Client, evt *Event) {
	switch evt.Event {
	case EventSendMessage:
		var p SendMessagePayload
		if !decode(c, evt, &p) {
			return
		}

		msg, err := s.chat.Append(ctx, c.groupID, p.User, p.Text)
		if err != nil {
			// At-most-once: the write is dropped, nothing is retried.
			slog.Error("Failed to save message", "groupID", c.groupID, "user", p.User, "error", err)
			return
		}
		s.hub.BroadcastRoom(rooms.Group(c.groupID), EventMessage, msg)

	default:
		slog.Debug("Ignoring unknown chat event", "event", evt.Event, "groupID", c.groupID)
	}
}

// PrimeHistory pushes one page of the group's history to a freshly joined
// connection. Failures are logged and leave the client without history.
func (s *Session) PrimeHistory(ctx context.Context, c *Client, page int) {
	messages, err := s.chat.RecentPage(ctx, c.groupID, page, s.historyPageSize)
	if err != nil {
		slog.Error("Failed to fetch recent messages", "groupID", c.groupID, "error", err)
		return
	}

	if err := c.SendEvent(EventRecentMessages, messages); err != nil {
		slog.Error("Failed to send recent messages", "groupID", c.groupID, "error", err)
	}
}

func decode(c *Client, evt *Event, dst interface{}) bool {
	if err := json.Unmarshal(evt.Data, dst); err != nil {
		slog.Warn("Dropping malformed payload", "event", evt.Event, "clientID", c.id, "error", err)
		return false
	}
	return true
}
