package websocket

import (
	"encoding/json"
	"fmt"

	"forum-relay/internal/models"
)

// Inbound event names (client to server).
const (
	EventSendMessage            = "sendMessage"
	EventJoinRoom               = "joinRoom"
	EventJoin                   = "join"
	EventLeaveRoom              = "leaveRoom"
	EventLeave                  = "leave"
	EventNewComment             = "newComment"
	EventNewReply               = "newReply"
	EventNewReport              = "newReport"
	EventNewCommentNotification = "newCommentNotification"
)

// Outbound event names (server to client).
const (
	EventMessage                   = "message"
	EventRecentMessages            = "recentMessages"
	EventUserConnected             = "userConnected"
	EventAnonymousUserConnected    = "anonymousUserConnected"
	EventUserDisconnected          = "userDisconnected"
	EventAnonymousUserDisconnected = "anonymousUserDisconnected"
)

// Event is the wire frame in both directions: a named event with an
// opaque payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent builds the wire representation of an outbound event.
func EncodeEvent(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return json.Marshal(Event{Event: event, Data: data})
}

// Inbound payload shapes. Fields missing from a payload decode to zero
// values; handlers treat those as absent and degrade instead of failing.

type RoomPayload struct {
	RoomID string `json:"roomId"`
}

type UserPayload struct {
	Username string `json:"username"`
}

type SendMessagePayload struct {
	User string `json:"user"`
	Text string `json:"text"`
}

type PostPayload struct {
	PostID string `json:"postID"`
}

type NotificationPayload struct {
	NewCommentNotification models.CommentNotification `json:"newCommentNotification"`
	CommentID              string                     `json:"commentID,omitempty"`
}
