// Package rooms names the broadcast rooms used by the relay. Room names
// are namespaced by kind so a username can never collide with a post id
// or a group id.
package rooms

func User(username string) string { return "user:" + username }

func Post(postID string) string { return "post:" + postID }

func Group(groupID string) string { return "group:" + groupID }
