package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"forum-relay/internal/config"
	"forum-relay/internal/database"
	"forum-relay/internal/models"
)

// testMongoDB connects to the instance named by MONGO_URI (or localhost)
// and skips the test when none is reachable.
func testMongoDB(t *testing.T) *database.MongoDB {
	t.Helper()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	db, err := database.NewMongoConnection(&config.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database + "-test",
	})
	if err != nil {
		t.Skipf("MongoDB not available, skipping integration test: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		db.Close(ctx)
	})
	return db
}

func TestMessageRepositoryIntegration(t *testing.T) {
	db := testMongoDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	groupID := fmt.Sprintf("it-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		db.DB.Collection("messages").DeleteMany(context.Background(), bson.M{"groupId": groupID})
	})

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	for i := 0; i < 25; i++ {
		msg := &models.Message{
			GroupID:   groupID,
			User:      "alice",
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Save(ctx, msg); err != nil {
			t.Fatalf("Save(%d): %v", i, err)
		}
		if msg.ID.IsZero() {
			t.Fatalf("Save(%d) did not assign an id", i)
		}
	}

	t.Run("pages are newest first", func(t *testing.T) {
		page, err := repo.FindRecentByGroup(ctx, groupID, 1, 10)
		if err != nil {
			t.Fatalf("FindRecentByGroup: %v", err)
		}
		if len(page) != 10 {
			t.Fatalf("page 1 has %d messages, want 10", len(page))
		}
		if page[0].Text != "message 24" {
			t.Errorf("page 1 starts with %q, want the newest message", page[0].Text)
		}
		for i := 1; i < len(page); i++ {
			if page[i].Timestamp.After(page[i-1].Timestamp) {
				t.Fatalf("page 1 not sorted newest first at index %d", i)
			}
		}
	})

	t.Run("pages are disjoint and cover the history", func(t *testing.T) {
		seen := map[string]bool{}
		total := 0
		for page := 1; page <= 3; page++ {
			msgs, err := repo.FindRecentByGroup(ctx, groupID, page, 10)
			if err != nil {
				t.Fatalf("FindRecentByGroup(page %d): %v", page, err)
			}
			for _, m := range msgs {
				if seen[m.Text] {
					t.Fatalf("message %q appeared on two pages", m.Text)
				}
				seen[m.Text] = true
			}
			total += len(msgs)
		}
		if total != 25 {
			t.Errorf("three pages returned %d messages, want 25", total)
		}
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		msgs, err := repo.FindRecentByGroup(ctx, groupID, 4, 10)
		if err != nil {
			t.Fatalf("FindRecentByGroup: %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("page 4 has %d messages, want 0", len(msgs))
		}
	})

	t.Run("page below one reads the first page", func(t *testing.T) {
		first, err := repo.FindRecentByGroup(ctx, groupID, 1, 10)
		if err != nil {
			t.Fatalf("FindRecentByGroup: %v", err)
		}
		clamped, err := repo.FindRecentByGroup(ctx, groupID, 0, 10)
		if err != nil {
			t.Fatalf("FindRecentByGroup: %v", err)
		}
		if len(clamped) != len(first) || clamped[0].Text != first[0].Text {
			t.Errorf("page 0 differs from page 1")
		}
	})

	t.Run("unknown group is empty, not an error", func(t *testing.T) {
		msgs, err := repo.FindRecentByGroup(ctx, "no-such-group", 1, 10)
		if err != nil {
			t.Fatalf("FindRecentByGroup: %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("unknown group returned %d messages", len(msgs))
		}
	})
}

func TestMessageRepositorySaveAssignsTimestamp(t *testing.T) {
	db := testMongoDB(t)
	repo := NewMessageRepository(db)

	groupID := fmt.Sprintf("it-ts-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		db.DB.Collection("messages").DeleteMany(context.Background(), bson.M{"groupId": groupID})
	})

	msg := &models.Message{GroupID: groupID, User: "alice", Text: "no timestamp"}
	if err := repo.Save(context.Background(), msg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Save left the timestamp unset")
	}
}
