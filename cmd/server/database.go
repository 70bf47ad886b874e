package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/platform/postgres"
	"github.com/topster/topster-api/internal/platform/redis"
)

// setupAppDatabase establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}

// setupAppCache connects to Redis and verifies the connection.
func setupAppCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*goredis.Client, error) {
	client := redis.NewClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := redis.NewCache(client).Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to cache: %w", err)
	}

	logger.Info("Cache connection established", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return client, nil
}

// handleMigrations runs a goose command against the embedded schema.
func handleMigrations(ctx context.Context, db *sql.DB, command string) error {
	switch command {
	case "up", "down", "status", "version", "reset", "redo":
	default:
		return fmt.Errorf("unsupported migration command %q", command)
	}

	slog.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command); err != nil {
		return err
	}
	slog.Info("Migrations finished", "command", command)
	return nil
}
