// Package initializer wires the application dependencies at startup.
package initializer

import (
	"fmt"

	"github.com/amirasaad/affiliates/infra"
	infraeventbus "github.com/amirasaad/affiliates/infra/eventbus"
	infrarepository "github.com/amirasaad/affiliates/infra/repository"
	"github.com/amirasaad/affiliates/pkg/clock"
	"github.com/amirasaad/affiliates/pkg/config"
)

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(cfg *config.App) (*config.Deps, error) {
	deps := &config.Deps{Config: cfg}

	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	deps.Uow = infrarepository.NewUoW(db)
	deps.EventBus = infraeventbus.NewWithMemory(logger)
	deps.Clock = clock.New()

	return deps, nil
}
