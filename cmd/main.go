package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"faithlink/backend/internal/api/handler"
	"faithlink/backend/internal/chathub"
	"faithlink/backend/internal/config"
	"faithlink/backend/internal/media"
	"faithlink/backend/internal/models"
	"faithlink/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting FaithLink chat backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)

	hub := chathub.NewManagerService(store, media.BaseURLResolver{Base: cfg.MediaBaseURL})
	go hub.Run()
	store.StartEventListener(context.Background(), hub.PubSubCh)

	r := gin.Default()
	h := handler.NewHandler(hub, store, cfg)

	r.GET("/ws", h.ServeWebSocket)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	api := r.Group("/api/chat", h.Authenticate)
	{
		api.GET("/conversations", h.ListConversations)
		api.GET("/messages/:userId", h.GetMessages)
		api.PUT("/read/:userId", h.MarkConversationRead)
		api.GET("/stats", h.RequireAdmin, h.GetStats)
		api.DELETE("/message/:id", h.DeleteMessage)
	}

	server := &http.Server{
		Addr:           cfg.AppPort,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
