package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"forum-relay/internal/database"
)

type UserRepository interface {
	// AdminUsernames returns the distinct usernames of all administrators.
	AdminUsernames(ctx context.Context) ([]string, error)
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *database.MongoDB) UserRepository {
	return &userRepository{coll: db.DB.Collection("users")}
}

func (r *userRepository) AdminUsernames(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "username", bson.M{"isAdmin": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admin usernames: %w", err)
	}

	usernames := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			usernames = append(usernames, s)
		}
	}
	return usernames, nil
}
