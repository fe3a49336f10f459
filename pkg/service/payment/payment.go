// Package payment implements the payment state machine. Every
// transition runs inside one unit of work: the status change, the ledger
// transaction and the revenue update commit or roll back together, so a
// payment can never end up completed without its charge row.
package payment

import (
	"context"
	"log/slog"

	"github.com/amirasaad/affiliates/pkg/clock"
	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/events"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/eventbus"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides the payment lifecycle operations.
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

// RecordInput carries the fields for recording a new payment.
type RecordInput struct {
	CompanyID  uuid.UUID
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Currency   string
	PayerID    *uuid.UUID
	ExternalID *string
	Metadata   map[string]any
}

// Record creates a new payment in pending status. Input is validated
// before any write; a missing company surfaces domain.ErrCompanyNotFound.
func (s *Service) Record(ctx context.Context, in RecordInput) (p *ledger.Payment, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		companies, err := uow.CompanyRepository()
		if err != nil {
			return err
		}
		payments, err := uow.PaymentRepository()
		if err != nil {
			return err
		}
		if _, err := companies.Get(ctx, in.CompanyID); err != nil {
			return err
		}
		p, err = ledger.NewPayment(
			in.CompanyID,
			in.Amount,
			in.Fee,
			in.Currency,
			in.PayerID,
			in.ExternalID,
			in.Metadata,
			s.clock.Now(),
		)
		if err != nil {
			return err
		}
		return payments.Create(ctx, p)
	})
	if err != nil {
		p = nil
		return
	}
	s.logger.Info("payment recorded",
		"paymentID", p.ID, "companyID", p.CompanyID, "amount", p.Amount)
	return
}

// Get returns a payment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (p *ledger.Payment, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payments, err := uow.PaymentRepository()
		if err != nil {
			return err
		}
		p, err = payments.Get(ctx, id)
		return err
	})
	return
}

// Complete transitions a payment to completed, records exactly one
// charge transaction and increments the company's cached revenue by the
// net amount, all inside one transaction. Calling Complete again on an
// already completed payment is a no-op returning the payment unchanged,
// so duplicate gateway webhooks are safe.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, externalID *string) (p *ledger.Payment, err error) {
	logger := s.logger.With("paymentID", id)
	var completed *events.PaymentCompleted

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payments, txs, revenues, err := ledgerRepos(uow)
		if err != nil {
			return err
		}
		p, err = payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == ledger.PaymentCompleted {
			// Duplicate delivery: the charge row already exists and revenue
			// was already counted.
			logger.Info("payment already completed, skipping")
			return nil
		}
		now := s.clock.Now()
		if err = p.Complete(externalID, now); err != nil {
			return err
		}
		ok, err := payments.UpdateStatus(ctx, p.ID, ledger.PaymentPending, ledger.PaymentCompleted, externalID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		exists, err := txs.ExistsForPayment(ctx, p.ID, ledger.TransactionCharge)
		if err != nil {
			return err
		}
		if !exists {
			if err := txs.Create(ctx, ledger.NewChargeTransaction(p, now)); err != nil {
				return err
			}
		}
		rev, err := revenues.GetForUpdate(ctx, p.CompanyID)
		if err != nil {
			return err
		}
		if rev == nil {
			rev = ledger.NewCompanyRevenue(p.CompanyID, now)
		}
		rev.Add(p.NetAmount(), now)
		if err := revenues.Upsert(ctx, rev); err != nil {
			return err
		}
		completed = &events.PaymentCompleted{
			PaymentID: p.ID,
			CompanyID: p.CompanyID,
			NetAmount: p.NetAmount(),
			Currency:  p.Currency,
		}
		return nil
	})
	if err != nil {
		logger.Error("complete payment failed", "error", err)
		return nil, err
	}
	if completed != nil {
		s.publish(ctx, *completed)
		logger.Info("payment completed", "net", completed.NetAmount)
	}
	return p, nil
}

// Refund transitions a completed payment to refunded, records exactly
// one refund transaction and decrements the company's cached revenue by
// the net amount, clamping the cache at zero. Repeat refunds are no-ops;
// refunding a pending or failed payment is rejected with
// domain.ErrInvalidTransition and leaves the payment unchanged.
func (s *Service) Refund(ctx context.Context, id uuid.UUID, externalRef *string) (p *ledger.Payment, err error) {
	logger := s.logger.With("paymentID", id)
	var refunded *events.PaymentRefunded

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payments, txs, revenues, err := ledgerRepos(uow)
		if err != nil {
			return err
		}
		p, err = payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == ledger.PaymentRefunded {
			logger.Info("payment already refunded, skipping")
			return nil
		}
		now := s.clock.Now()
		if err = p.Refund(externalRef, now); err != nil {
			return err
		}
		ok, err := payments.UpdateStatus(ctx, p.ID, ledger.PaymentCompleted, ledger.PaymentRefunded, externalRef, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		exists, err := txs.ExistsForPayment(ctx, p.ID, ledger.TransactionRefund)
		if err != nil {
			return err
		}
		if !exists {
			if err := txs.Create(ctx, ledger.NewRefundTransaction(p, now)); err != nil {
				return err
			}
		}
		rev, err := revenues.GetForUpdate(ctx, p.CompanyID)
		if err != nil {
			return err
		}
		if rev == nil {
			rev = ledger.NewCompanyRevenue(p.CompanyID, now)
		}
		rev.Subtract(p.NetAmount(), now)
		if err := revenues.Upsert(ctx, rev); err != nil {
			return err
		}
		refunded = &events.PaymentRefunded{
			PaymentID: p.ID,
			CompanyID: p.CompanyID,
			NetAmount: p.NetAmount(),
			Currency:  p.Currency,
		}
		return nil
	})
	if err != nil {
		logger.Error("refund payment failed", "error", err)
		return nil, err
	}
	if refunded != nil {
		s.publish(ctx, *refunded)
		logger.Info("payment refunded", "net", refunded.NetAmount)
	}
	return p, nil
}

// Fail transitions a pending payment to failed. Failed payments never
// produce ledger transactions or revenue changes.
func (s *Service) Fail(ctx context.Context, id uuid.UUID) (p *ledger.Payment, err error) {
	logger := s.logger.With("paymentID", id)
	var failed *events.PaymentFailed

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		payments, err := uow.PaymentRepository()
		if err != nil {
			return err
		}
		p, err = payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == ledger.PaymentFailed {
			return nil
		}
		now := s.clock.Now()
		if err = p.Fail(now); err != nil {
			return err
		}
		ok, err := payments.UpdateStatus(ctx, p.ID, ledger.PaymentPending, ledger.PaymentFailed, nil, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}
		failed = &events.PaymentFailed{PaymentID: p.ID, CompanyID: p.CompanyID}
		return nil
	})
	if err != nil {
		logger.Error("fail payment failed", "error", err)
		return nil, err
	}
	if failed != nil {
		s.publish(ctx, *failed)
		logger.Info("payment marked failed")
	}
	return p, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.Type(), "error", err)
	}
}

func ledgerRepos(uow repository.UnitOfWork) (
	repository.PaymentRepository,
	repository.TransactionRepository,
	repository.RevenueRepository,
	error,
) {
	payments, err := uow.PaymentRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	txs, err := uow.TransactionRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	revenues, err := uow.RevenueRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	return payments, txs, revenues, nil
}
