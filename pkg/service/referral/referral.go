// Package referral provides the upline resolver and the commission
// distributor, the read and write halves of the referral engine.
package referral

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/affiliates/pkg/clock"
	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/events"
	"github.com/amirasaad/affiliates/pkg/domain/referral"
	"github.com/amirasaad/affiliates/pkg/eventbus"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for referral profiles, upline
// resolution and commission distribution.
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

// CreateProfile creates a referral profile for the user with a fresh
// referral code.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID) (p *referral.Profile, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProfileRepository()
		if err != nil {
			return err
		}
		p = referral.NewProfile(userID, s.clock.Now())
		return repo.Create(ctx, p)
	})
	if err != nil {
		p = nil
	}
	return
}

// LinkReferral assigns the user's referred-by edge from a referral code.
// The code owner becomes the user's direct referrer. Unknown codes
// surface domain.ErrProfileNotFound; linking a user to their own code is
// rejected.
func (s *Service) LinkReferral(ctx context.Context, userID uuid.UUID, code string) (p *referral.Profile, err error) {
	logger := s.logger.With("userID", userID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProfileRepository()
		if err != nil {
			return err
		}
		referrer, err := repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if referrer.UserID == userID {
			return domain.ErrSelfReferral
		}
		p, err = repo.Get(ctx, userID)
		if err != nil {
			return err
		}
		referrerID := referrer.UserID
		p.ReferredBy = &referrerID
		return repo.Update(ctx, p)
	})
	if err != nil {
		logger.Error("link referral failed", "error", err)
		p = nil
		return
	}
	logger.Info("referral linked", "referrer", *p.ReferredBy)
	return
}

// ResolveUpline walks the referred-by chain upward from userID and
// returns at most maxLevels (ancestor, level) pairs, direct referrer
// first. The walk is bounded strictly by the level counter, so malformed
// cyclic data truncates at maxLevels instead of looping. Read-only.
func (s *Service) ResolveUpline(ctx context.Context, userID uuid.UUID, maxLevels int) (upline []referral.UplineEntry, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.ProfileRepository()
		if err != nil {
			return err
		}
		upline, err = resolveUpline(ctx, repo, userID, maxLevels)
		return err
	})
	return
}

func resolveUpline(
	ctx context.Context,
	repo repository.ProfileRepository,
	userID uuid.UUID,
	maxLevels int,
) ([]referral.UplineEntry, error) {
	upline := make([]referral.UplineEntry, 0, maxLevels)
	current := userID
	for level := 1; level <= maxLevels; level++ {
		p, err := repo.Get(ctx, current)
		if errors.Is(err, domain.ErrProfileNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if p.ReferredBy == nil {
			break
		}
		upline = append(upline, referral.UplineEntry{UserID: *p.ReferredBy, Level: level})
		current = *p.ReferredBy
	}
	return upline, nil
}

// Distribute applies the rate table to a sale by sourceUserID and creates
// one commission per qualifying upline level. The rate table is indexed
// by level (index 0 = level 1) and is always passed explicitly. Amounts
// are rounded half-up to two fraction digits; levels rounding to zero are
// skipped without blocking higher levels. All writes happen in one
// transaction.
func (s *Service) Distribute(
	ctx context.Context,
	sourceUserID uuid.UUID,
	saleAmount decimal.Decimal,
	rates []decimal.Decimal,
) (created []*referral.Commission, err error) {
	logger := s.logger.With("sourceUserID", sourceUserID, "amount", saleAmount)
	if !saleAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if len(rates) == 0 {
		return nil, domain.ErrEmptyRateTable
	}
	if !referral.ValidRateTable(rates) {
		return nil, domain.ErrInvalidAmount
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		profiles, err := uow.ProfileRepository()
		if err != nil {
			return err
		}
		commissions, err := uow.CommissionRepository()
		if err != nil {
			return err
		}
		upline, err := resolveUpline(ctx, profiles, sourceUserID, len(rates))
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for _, entry := range upline {
			amount := saleAmount.Mul(rates[entry.Level-1]).Round(2)
			if !amount.IsPositive() {
				continue
			}
			c, err := referral.NewCommission(entry.UserID, sourceUserID, amount, entry.Level, now)
			if err != nil {
				return err
			}
			if err := commissions.Create(ctx, c); err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		logger.Error("distribution failed", "error", err)
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.CommissionsDistributed{
		SourceUserID: sourceUserID,
		SaleAmount:   saleAmount,
		Count:        len(created),
	}); err != nil {
		logger.Warn("failed to publish distribution event", "error", err)
	}
	logger.Info("commissions distributed", "count", len(created))
	return created, nil
}

// ListCommissions returns the commissions earned by a recipient.
func (s *Service) ListCommissions(ctx context.Context, recipientID uuid.UUID) (list []*referral.Commission, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CommissionRepository()
		if err != nil {
			return err
		}
		list, err = repo.ListByRecipient(ctx, recipientID)
		return err
	})
	return
}

// ListGenerated returns the commissions a user's sales produced for
// their upline.
func (s *Service) ListGenerated(ctx context.Context, sourceUserID uuid.UUID) (list []*referral.Commission, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CommissionRepository()
		if err != nil {
			return err
		}
		list, err = repo.ListBySource(ctx, sourceUserID)
		return err
	})
	return
}
