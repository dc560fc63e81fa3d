package services

import (
	"context"
	"time"

	"forum-relay/internal/models"
	"forum-relay/internal/repository"
)

// ChatService persists and paginates group chat messages. Writes are
// at-most-once: a storage failure is reported to the caller, who logs it
// and drops the message without retrying.
type ChatService struct {
	messages repository.MessageRepository
	sink     EventSink
}

func NewChatService(messages repository.MessageRepository, sink EventSink) *ChatService {
	return &ChatService{
		messages: messages,
		sink:     sink,
	}
}

// Append stores a message with a server-assigned timestamp and returns the
// stored record.
func (s *ChatService) Append(ctx context.Context, groupID, user, text string) (*models.Message, error) {
	msg := &models.Message{
		GroupID:   groupID,
		User:      user,
		Text:      text,
		Timestamp: time.Now(),
	}

	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}

	publish(s.sink, "message:"+groupID, msg)
	return msg, nil
}

// RecentPage returns one page of a group's history, most recent first.
// Page is 1-indexed; values below 1 fall back to the first page.
func (s *ChatService) RecentPage(ctx context.Context, groupID string, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	return s.messages.FindRecentByGroup(ctx, groupID, page, pageSize)
}
