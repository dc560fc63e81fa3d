package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"forum-relay/internal/models"
	"forum-relay/internal/services"
)

type fakeMessageRepo struct {
	err     error
	history []models.Message
}

func (f *fakeMessageRepo) Save(ctx context.Context, msg *models.Message) error {
	return f.err
}

func (f *fakeMessageRepo) FindRecentByGroup(ctx context.Context, groupID string, page, pageSize int) ([]models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func newMessageRouter(repo *fakeMessageRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewMessageHandler(services.NewChatService(repo, nil), []string{"group1", "group2"}, 20)

	engine := gin.New()
	engine.GET("/api/v1/messages/:groupId", handler.GetMessages)
	return engine
}

func TestGetMessages(t *testing.T) {
	t.Run("returns a page of history", func(t *testing.T) {
		repo := &fakeMessageRepo{history: []models.Message{
			{GroupID: "group1", User: "alice", Text: "hello"},
		}}
		engine := newMessageRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/group1", nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}

		var msgs []models.Message
		if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
			t.Fatalf("response body: %v", err)
		}
		if len(msgs) != 1 || msgs[0].Text != "hello" {
			t.Errorf("body = %+v", msgs)
		}
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		engine := newMessageRouter(&fakeMessageRepo{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/group9", nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("storage failure is 500 without detail", func(t *testing.T) {
		engine := newMessageRouter(&fakeMessageRepo{err: errors.New("mongo down")})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/group1", nil)
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("response body: %v", err)
		}
		if body["error"] != "internal server error" {
			t.Errorf("error = %q, want generic message", body["error"])
		}
	})

	t.Run("bad page values fall back to page one", func(t *testing.T) {
		engine := newMessageRouter(&fakeMessageRepo{})

		for _, q := range []string{"?page=abc", "?page=-2", ""} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/group1"+q, nil)
			engine.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("GET %q status = %d, want 200", q, w.Code)
			}
		}
	})
}

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func signToken(t *testing.T, secret, username string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestWSHandlerIdentity(t *testing.T) {
	handler := NewWSHandler(nil, nil, []string{"group1"}, "test-secret")

	t.Run("userId query wins", func(t *testing.T) {
		c := testContext(t, "/ws?userId=alice")
		if got := handler.identity(c); got != "alice" {
			t.Errorf("identity = %q, want alice", got)
		}
	})

	t.Run("valid token yields the username claim", func(t *testing.T) {
		token := signToken(t, "test-secret", "bob")
		c := testContext(t, "/ws?token="+token)
		if got := handler.identity(c); got != "bob" {
			t.Errorf("identity = %q, want bob", got)
		}
	})

	t.Run("token signed with another secret is anonymous", func(t *testing.T) {
		token := signToken(t, "wrong-secret", "bob")
		c := testContext(t, "/ws?token="+token)
		if got := handler.identity(c); got != "" {
			t.Errorf("identity = %q, want anonymous", got)
		}
	})

	t.Run("token with another signing method is anonymous", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
			"username": "bob",
			"exp":      time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		c := testContext(t, "/ws?token="+signed)
		if got := handler.identity(c); got != "" {
			t.Errorf("identity = %q, want anonymous", got)
		}
	})

	t.Run("garbage token is anonymous", func(t *testing.T) {
		c := testContext(t, "/ws?token=not-a-jwt")
		if got := handler.identity(c); got != "" {
			t.Errorf("identity = %q, want anonymous", got)
		}
	})

	t.Run("no identity is anonymous", func(t *testing.T) {
		c := testContext(t, "/ws")
		if got := handler.identity(c); got != "" {
			t.Errorf("identity = %q, want anonymous", got)
		}
	})
}

func TestGroupChatUnknownGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewWSHandler(nil, nil, []string{"group1"}, "test-secret")

	engine := gin.New()
	engine.GET("/ws/chat/:groupId", handler.GroupChat)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws/chat/group9", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
