// Package main implements the entry point for the wallet wrapped server,
// which generates year-in-review card decks for wallet addresses.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/wallet-wrapped/internal/app"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, builds the application and serves HTTP until a
// shutdown signal arrives.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		slog.Bool("images_enabled", cfg.Images.OpenAIAPIKey != ""))

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	if err := a.Runner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	return startHTTPServer(ctx, a, setupRouter(a))
}
