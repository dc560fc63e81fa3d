package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum-relay/internal/adapters/kafka"
	"forum-relay/internal/api/routes"
	"forum-relay/internal/config"
	"forum-relay/internal/database"
	"forum-relay/internal/repository"
	"forum-relay/internal/services"
	"forum-relay/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting forum relay")

	// Redis connection (presence mirror + rate limiter)
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// MongoDB connection (messages, posts, users)
	mongoDB, err := database.NewMongoConnection(&cfg.Mongo)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	// Optional Kafka firehose
	var sink services.EventSink
	var publisher *kafka.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.InitProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("Failed to connect to Kafka", "brokers", cfg.Kafka.Brokers, "error", err)
			os.Exit(1)
		}
		publisher = kafka.NewPublisher(producer, cfg.Kafka.Topic)
		sink = publisher
		defer publisher.Close()
	}

	redisService := services.NewRedisService(redisClient)

	messageRepo := repository.NewMessageRepository(mongoDB)
	postRepo := repository.NewPostRepository(mongoDB)
	userRepo := repository.NewUserRepository(mongoDB)

	hub := websocket.NewHub(redisService)
	go hub.Run()

	chatService := services.NewChatService(messageRepo, sink)
	notificationService := services.NewNotificationService(postRepo, userRepo, hub, sink)

	session := websocket.NewSession(hub, chatService, notificationService, cfg.Chat.HistoryPageSize)

	router := routes.NewRouter(hub, session, chatService, redisService, cfg)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if err := mongoDB.Close(ctx); err != nil {
		slog.Error("Failed to disconnect MongoDB", "error", err)
	}

	slog.Info("Server stopped")
}
