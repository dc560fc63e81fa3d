package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"forum-relay/internal/api/handlers"
	"forum-relay/internal/api/middleware"
	"forum-relay/internal/config"
	"forum-relay/internal/services"
	"forum-relay/internal/websocket"
)

type Router struct {
	engine         *gin.Engine
	wsHandler      *handlers.WSHandler
	messageHandler *handlers.MessageHandler
	rateLimit      *middleware.RateLimitMiddleware
}

func NewRouter(
	hub *websocket.Hub,
	session *websocket.Session,
	chat *services.ChatService,
	redisService *services.RedisService,
	cfg *config.Config,
) *Router {
	return &Router{
		engine:         gin.New(),
		wsHandler:      handlers.NewWSHandler(hub, session, cfg.Chat.Groups, cfg.JWT.Secret),
		messageHandler: handlers.NewMessageHandler(chat, cfg.Chat.Groups, cfg.Chat.APIPageSize),
		rateLimit:      middleware.NewRateLimitMiddleware(redisService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.LogAPI())
	r.engine.Use(middleware.CORS())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	ws := r.engine.Group("/ws")
	{
		ws.GET("", r.wsHandler.Global)
		ws.GET("/chat/:groupId", r.wsHandler.GroupChat)
	}

	api := r.engine.Group("/api/v1")
	api.Use(r.rateLimit.RateLimitIP(120, time.Minute))
	{
		api.GET("/messages/:groupId", r.messageHandler.GetMessages)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
