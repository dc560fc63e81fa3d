package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"forum-relay/internal/models"
	"forum-relay/internal/repository"
	"forum-relay/internal/rooms"
)

const (
	eventNewCommentNotification = "newCommentNotification"
	eventNewReport              = "newReport"
)

// NotificationService computes who should hear about a comment or reply
// and pushes a recipient-specific notification to each user room. Errors
// never propagate past a routing call: a missing post or an unreachable
// store is logged and the event is dropped.
type NotificationService struct {
	posts       repository.PostRepository
	users       repository.UserRepository
	broadcaster Broadcaster
	sink        EventSink
}

func NewNotificationService(
	posts repository.PostRepository,
	users repository.UserRepository,
	broadcaster Broadcaster,
	sink EventSink,
) *NotificationService {
	return &NotificationService{
		posts:       posts,
		users:       users,
		broadcaster: broadcaster,
		sink:        sink,
	}
}

// RouteComment resolves the post named by the event and fans the
// notification out to its followers, its author, and the replied-to
// comment's author, excluding the acting commenter everywhere.
func (s *NotificationService) RouteComment(ctx context.Context, event *models.CommentNotification) {
	post, err := s.posts.FindByID(ctx, event.PostID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("Post not found, dropping notification", "postID", event.PostID)
		return
	}
	if err != nil {
		slog.Error("Failed to resolve post for notification", "postID", event.PostID, "error", err)
		return
	}

	for username, message := range recipientMessages(post, event) {
		notification := &models.Notification{
			CommenterUsername: event.CommenterUsername,
			Date:              event.Date,
			Message:           message,
			PostID:            event.PostID,
			Read:              false,
		}
		s.broadcaster.BroadcastRoom(rooms.User(username), eventNewCommentNotification, notification)
		publish(s.sink, "notification:"+username, notification)
	}
}

// RouteReport re-emits a report payload verbatim to every administrator's
// user room.
func (s *NotificationService) RouteReport(ctx context.Context, payload json.RawMessage) {
	admins, err := s.users.AdminUsernames(ctx)
	if err != nil {
		slog.Error("Failed to resolve admin usernames for report", "error", err)
		return
	}

	for _, username := range admins {
		s.broadcaster.BroadcastRoom(rooms.User(username), eventNewReport, payload)
	}
}

// recipientMessages computes the recipient set together with each
// recipient's message text. A user never hears about their own action, and
// map semantics guarantee at most one notification per username even when
// someone qualifies under several roles (follower and author, say).
//
// Missing fields on the event degrade by skipping the corresponding
// exclusion or recipient rather than failing the whole routing.
func recipientMessages(post *models.Post, event *models.CommentNotification) map[string]string {
	commenter := event.CommenterUsername
	postAuthor := post.Author.Username
	commentAuthor := event.CommentAuthorUsername

	out := make(map[string]string, len(post.Followers)+2)

	followerText := event.CommenterName + " commented on a post you are following."
	if event.IsReply() {
		followerText = event.CommenterName + " replied to a comment you are following."
	}
	for _, follower := range post.Followers {
		if follower == commenter || follower == postAuthor {
			continue
		}
		if commentAuthor != "" && follower == commentAuthor {
			continue
		}
		out[follower] = followerText
	}

	if !event.IsReply() {
		if postAuthor != "" && postAuthor != commenter {
			out[postAuthor] = event.CommenterName + " commented on your post."
		}
		return out
	}

	// Reply to a comment: the comment's author and the post's author get
	// role-specific texts. When they are the same person, the comment-author
	// message wins and is sent once.
	if commentAuthor != "" && commentAuthor != commenter {
		out[commentAuthor] = event.CommenterName + " replied to your comment."
	}
	if postAuthor != "" && postAuthor != commenter && postAuthor != commentAuthor {
		out[postAuthor] = event.CommenterName + " replied to a comment on your post."
	}
	return out
}
