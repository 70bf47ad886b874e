package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/topster/topster-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	providers := make([]string, 0, len(cfg.OAuth2.Providers))
	for id := range cfg.OAuth2.Providers {
		providers = append(providers, id)
	}
	sort.Strings(providers)

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"oauth_providers", providers)

	return cfg, nil
}
