package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forum-relay/internal/database"
	"forum-relay/internal/models"
)

type PostRepository interface {
	// FindByID loads the follower list and author username of one post.
	// Returns ErrNotFound when the post does not exist or the id is not
	// a valid object id.
	FindByID(ctx context.Context, id string) (*models.Post, error)
}

type postRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *database.MongoDB) PostRepository {
	return &postRepository{coll: db.DB.Collection("posts")}
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetProjection(bson.M{
		"followers":       1,
		"author.username": 1,
	})

	var post models.Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post: %w", err)
	}

	post.ID = id
	return &post, nil
}
