package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/collection-service/internal/adapter/postgres"
	redis_adapter "github.com/user/collection-service/internal/adapter/redis"
	"github.com/user/collection-service/internal/delivery/http/handler"
	"github.com/user/collection-service/internal/delivery/http/router"
	"github.com/user/collection-service/internal/migrations"
	"github.com/user/collection-service/internal/usecase"
	"github.com/user/collection-service/pkg/config"
	"github.com/user/collection-service/pkg/logger"
	"github.com/user/collection-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)

	migrateURL := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	if err := migrations.Up(migrateURL); err != nil {
		slog.Error("Unable to apply migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema up to date")

	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Repositories ---
	tokenRepo := postgres.NewTokenRepo(dbpool)
	itemRepo := postgres.NewItemRepo(dbpool)
	communityRepo := postgres.NewCommunityRepo(dbpool)
	sessionRepo := redis_adapter.NewSessionRepo(rdb)

	// --- Use Cases ---
	tokenManager := usecase.NewTokenManager(tokenRepo, cfg.CaptureTokenTTL)
	captureManager := usecase.NewCaptureManager(tokenManager, sessionRepo, cfg.CaptureSessionTTL, cfg.PublicBaseURL)
	itemManager := usecase.NewItemManager(itemRepo)
	communityManager := usecase.NewCommunityManager(communityRepo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(tokenManager, captureManager, itemManager, communityManager)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
