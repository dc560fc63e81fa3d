package models

import "time"

// CommentNotification is the transient payload carried by an inbound
// newCommentNotification event. It lives for the duration of one routing
// computation and is never persisted.
type CommentNotification struct {
	CommenterUsername     string    `json:"commenterUsername"`
	CommenterName         string    `json:"commenterName"`
	CommentAuthorUsername string    `json:"commentAuthorUsername,omitempty"`
	CommentID             string    `json:"commentID,omitempty"`
	PostID                string    `json:"postID"`
	Date                  time.Time `json:"date"`
}

// IsReply reports whether the event targets an existing comment rather
// than the post itself.
func (n *CommentNotification) IsReply() bool {
	return n.CommentID != ""
}

// Notification is the recipient-specific object emitted to a user room.
// Delivery is best-effort: recipients without a live connection receive
// nothing.
type Notification struct {
	CommenterUsername string    `json:"commenterUsername"`
	Date              time.Time `json:"date"`
	Message           string    `json:"message"`
	PostID            string    `json:"postID"`
	Read              bool      `json:"read"`
}
