package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cookup/gateway/config"
	"github.com/cookup/gateway/internal/cli"
	"github.com/cookup/gateway/internal/logging"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New(os.Stderr, "info").Fatal("failed to load configuration", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	// Stop on an interrupt or terminate signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Serve(ctx, cfg, logger); err != nil {
		logger.Fatal("gateway stopped", "err", err)
	}
}
