package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"fanz/internal/config"
	"fanz/internal/consul"
	"fanz/internal/database"
	"fanz/internal/identity"
	"fanz/internal/logger"
	"fanz/internal/media"
	"fanz/internal/server"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, deregister func(), done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log := slog.Default()
	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	deregister()

	// The server gets 5 seconds to finish in-flight requests.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	log := logger.New("engagement-service")
	logger.SetDefault(log)

	if err := config.ValidateEnv([]string{"DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD", "REDIS_ADDR"}); err != nil {
		log.Error("Configuration error", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateAuth(); err != nil {
		log.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx)
	if err != nil {
		log.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Redis connection failed", "error", err)
		os.Exit(1)
	}

	var verifier identity.Verifier
	if verifyURL := os.Getenv("AUTH_VERIFY_URL"); verifyURL != "" {
		verifier = identity.NewRemoteVerifier(verifyURL)
		log.Info("Using remote token verification", "url", verifyURL)
	} else {
		verifier = identity.NewJWTVerifier(os.Getenv("AUTH_TOKEN_SECRET"))
		log.Info("Using local token verification")
	}

	storage, err := media.NewStorage(ctx)
	if err != nil {
		log.Warn("Media storage unavailable, media endpoints disabled", "error", err)
		storage = nil
	}

	cfg := server.LoadConfigFromEnv()
	apiServer := server.New(cfg, db, rdb, verifier, storage, log)

	deregister := consul.RegisterFromEnv("engagement-service", log)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, deregister, done)

	log.Info("Engagement service listening", "port", cfg.Port)
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
