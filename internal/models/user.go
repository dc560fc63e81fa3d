package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a read-only projection of the user directory, used to resolve
// administrator usernames for report fan-out.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username string             `bson:"username" json:"username"`
	IsAdmin  bool               `bson:"isAdmin" json:"isAdmin"`
}
