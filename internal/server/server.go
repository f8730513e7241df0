// Package server wires the engagement service together: database, identity
// verifier, real-time hub, media storage, and the HTTP router. All clients
// are constructed once at process start and injected here; nothing reaches
// for a global handle.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fanz/internal/comments"
	"fanz/internal/database"
	"fanz/internal/identity"
	"fanz/internal/likes"
	"fanz/internal/media"
	"fanz/internal/posts"
	"fanz/internal/realtime"
)

// Config holds HTTP server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	return &Config{
		Port:        port,
		ReadTimeout: getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		// SSE streams are long-lived, so the write timeout stays off by default.
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 0),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *Config
	db       database.Service
	hub      *realtime.Hub
	storage  media.Storage
	verifier identity.Verifier
	logger   *slog.Logger

	identityHandler *identity.Handler
	postsHandler    *posts.Handler
	commentsHandler *comments.Handler
	likesHandler    *likes.Handler
	sseHandler      *realtime.SSEHandler
	mediaHandler    *media.Handler
}

// New builds the dependency graph and returns a configured HTTP server.
// storage may be nil; the media routes then respond 503.
func New(cfg *Config, db database.Service, rdb *redis.Client, verifier identity.Verifier, storage media.Storage, logger *slog.Logger) *http.Server {
	postsRepo := posts.NewRepository(db)
	commentsRepo := comments.NewRepository(db)
	likesRepo := likes.NewRepository(db)

	hub := realtime.NewHub(rdb, postsRepo, commentsRepo, logger)

	postsService := posts.NewService(postsRepo, hub, logger)
	commentsService := comments.NewService(commentsRepo, hub)
	likesService := likes.NewService(likesRepo, hub)

	s := &Server{
		cfg:      cfg,
		db:       db,
		hub:      hub,
		storage:  storage,
		verifier: verifier,
		logger:   logger,

		identityHandler: identity.NewHandler(verifier),
		postsHandler:    posts.NewHandler(postsService),
		commentsHandler: comments.NewHandler(commentsService),
		likesHandler:    likes.NewHandler(likesService),
		sseHandler:      realtime.NewSSEHandler(hub),
	}
	if storage != nil {
		s.mediaHandler = media.NewHandler(storage)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
