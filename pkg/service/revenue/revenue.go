// Package revenue implements the revenue aggregator: the cached
// per-company total derived from the transaction log, and the full
// recomputation path used for reconciliation.
package revenue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/affiliates/pkg/clock"
	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain/events"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/eventbus"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
)

// Service provides company and revenue aggregate operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:    deps.Uow,
		bus:    deps.EventBus,
		clock:  deps.Clock,
		logger: deps.Logger,
	}
}

// CreateCompany creates a merchant company.
func (s *Service) CreateCompany(ctx context.Context, name string, ownerID *uuid.UUID) (c *ledger.Company, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		c = ledger.NewCompany(name, ownerID, s.clock.Now())
		return repo.Create(ctx, c)
	})
	if err != nil {
		c = nil
	}
	return
}

// Get returns the cached revenue for the company. A company with no
// recorded transactions yet reads as zero.
func (s *Service) Get(ctx context.Context, companyID uuid.UUID) (rev *ledger.CompanyRevenue, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		companies, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		revenues, err := uow.RevenueRepository()
		if err != nil {
			return err
		}
		if _, err := companies.Get(ctx, companyID); err != nil {
			return err
		}
		rev, err = revenues.Get(ctx, companyID)
		if err != nil {
			return err
		}
		if rev == nil {
			rev = ledger.NewCompanyRevenue(companyID, s.clock.Now())
		}
		return nil
	})
	if err != nil {
		rev = nil
	}
	return
}

// ListTransactions returns the company's ledger entries.
func (s *Service) ListTransactions(ctx context.Context, companyID uuid.UUID) (txs []*ledger.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		companies, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := companies.Get(ctx, companyID); err != nil {
			return err
		}
		txs, err = txRepo.ListByCompany(ctx, companyID)
		return err
	})
	return
}

// Recompute re-derives the cached total from the company's full
// transaction history and overwrites the cache: +net for charges, -net
// for refunds and payouts, clamped at zero. Idempotent; always
// reproduces the value the incremental updates would have produced in
// event order from an empty ledger.
func (s *Service) Recompute(ctx context.Context, companyID uuid.UUID) (rev *ledger.CompanyRevenue, err error) {
	logger := s.logger.With("companyID", companyID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		companies, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		revenues, err := uow.RevenueRepository()
		if err != nil {
			return err
		}
		if _, err := companies.Get(ctx, companyID); err != nil {
			return err
		}
		txs, err := txRepo.ListByCompany(ctx, companyID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		rev, err = revenues.GetForUpdate(ctx, companyID)
		if err != nil {
			return err
		}
		if rev == nil {
			rev = ledger.NewCompanyRevenue(companyID, now)
		}
		rev.TotalRevenue = ledger.SumTransactions(txs)
		rev.LastUpdated = now
		return revenues.Upsert(ctx, rev)
	})
	if err != nil {
		logger.Error("revenue recomputation failed", "error", err)
		return nil, err
	}
	if pubErr := s.bus.Publish(ctx, events.RevenueRecomputed{
		CompanyID:    companyID,
		TotalRevenue: rev.TotalRevenue,
	}); pubErr != nil {
		logger.Warn("failed to publish recompute event", "error", pubErr)
	}
	logger.Info("revenue recomputed", "total", rev.TotalRevenue)
	return rev, nil
}

// ReconcileAll recomputes the cached revenue of every company. Used by
// the periodic reconciliation job; failures for individual companies are
// collected so one bad row does not stop the sweep.
func (s *Service) ReconcileAll(ctx context.Context) error {
	var companies []*ledger.Company
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		companies, err = repo.List(ctx)
		return err
	})
	if err != nil {
		return err
	}

	var errs []error
	for _, c := range companies {
		if _, err := s.Recompute(ctx, c.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
