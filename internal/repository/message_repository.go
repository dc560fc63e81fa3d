package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum-relay/internal/database"
	"forum-relay/internal/models"
)

type MessageRepository interface {
	Save(ctx context.Context, msg *models.Message) error
	FindRecentByGroup(ctx context.Context, groupID string, page, pageSize int) ([]models.Message, error)
}

type messageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *database.MongoDB) MessageRepository {
	return &messageRepository{coll: db.DB.Collection("messages")}
}

func (r *messageRepository) Save(ctx context.Context, msg *models.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	res, err := r.coll.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// FindRecentByGroup returns one page of a group's messages, most recent
// first. Pages are 1-indexed; anything below 1 is clamped to the first page.
func (r *messageRepository) FindRecentByGroup(ctx context.Context, groupID string, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * int64(pageSize)

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(pageSize))

	cur, err := r.coll.Find(ctx, bson.M{"groupId": groupID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	defer cur.Close(ctx)

	messages := make([]models.Message, 0, pageSize)
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
