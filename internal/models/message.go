package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one persisted chat message scoped to a group channel.
// Immutable once stored; the relay never deletes messages.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	GroupID   string             `bson:"groupId" json:"groupId"`
	User      string             `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
