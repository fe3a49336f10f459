package config

import (
	"log/slog"

	"github.com/amirasaad/affiliates/pkg/clock"
	"github.com/amirasaad/affiliates/pkg/eventbus"
	"github.com/amirasaad/affiliates/pkg/repository"
)

// Deps holds all infrastructure dependencies for building the app and
// services.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Clock    clock.Clock
	Logger   *slog.Logger
	Config   *App
}
