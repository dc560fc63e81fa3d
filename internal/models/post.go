package models

// Post is a read-only projection of a forum post. The relay only ever
// reads the author username and the follower list; the post-management
// service owns the full document.
type Post struct {
	ID        string     `bson:"-" json:"id"`
	Author    PostAuthor `bson:"author" json:"author"`
	Followers []string   `bson:"followers" json:"followers"`
}

type PostAuthor struct {
	Username string `bson:"username" json:"username"`
}
