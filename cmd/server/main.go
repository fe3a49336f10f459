package main

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/affiliates/app"
	"github.com/amirasaad/affiliates/infra/initializer"
	"github.com/amirasaad/affiliates/pkg/config"
	revenuesvc "github.com/amirasaad/affiliates/pkg/service/revenue"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env", slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	fiberApp := app.New(*deps)

	if cfg.Reconcile.Enabled {
		scheduler, err := revenuesvc.StartReconciler(
			revenuesvc.NewService(*deps), cfg.Reconcile.Interval, logger)
		if err != nil {
			return fmt.Errorf("failed to start revenue reconciler: %w", err)
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Warn("reconciler shutdown", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
	)

	return fiberApp.Listen(addr)
}
