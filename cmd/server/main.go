// Package main implements the entry point for the Topster API server,
// which handles account registration, password and social login, and
// profile management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	// Register the pgx driver with database/sql
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a goose migration command (up, down, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd); err != nil {
		log.Printf("topster-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, opens the backing stores and either executes a
// migration command or serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, logger)
		return handleMigrations(ctx, db, migrateCmd)
	}

	if err := handleMigrations(ctx, db, "up"); err != nil {
		closeDB(db, logger)
		return err
	}

	redisClient, err := setupAppCache(ctx, cfg, logger)
	if err != nil {
		closeDB(db, logger)
		return err
	}

	app, err := newApplication(cfg, logger, db, redisClient, newHTTPClient(cfg.OAuth2))
	if err != nil {
		closeDB(db, logger)
		_ = redisClient.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
