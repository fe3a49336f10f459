// Package repository defines the data-access interfaces the services
// depend on, together with the UnitOfWork transactional boundary.
package repository

import (
	"context"
	"time"

	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/domain/referral"
	"github.com/google/uuid"
)

// ProfileRepository defines data access for referral profiles.
type ProfileRepository interface {
	// Get returns the profile owned by userID, or domain.ErrProfileNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*referral.Profile, error)
	// GetByCode returns the profile holding the referral code, or
	// domain.ErrProfileNotFound.
	GetByCode(ctx context.Context, code string) (*referral.Profile, error)
	Create(ctx context.Context, p *referral.Profile) error
	Update(ctx context.Context, p *referral.Profile) error
}

// CommissionRepository defines data access for commission records.
// Commissions are append-only; there is no update or delete.
type CommissionRepository interface {
	Create(ctx context.Context, c *referral.Commission) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*referral.Commission, error)
	ListBySource(ctx context.Context, sourceUserID uuid.UUID) ([]*referral.Commission, error)
}

// CompanyRepository defines data access for companies.
type CompanyRepository interface {
	// Get returns the company, or domain.ErrCompanyNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ledger.Company, error)
	Create(ctx context.Context, c *ledger.Company) error
	List(ctx context.Context) ([]*ledger.Company, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	// Get returns the payment, or domain.ErrPaymentNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ledger.Payment, error)
	// GetForUpdate locks the payment row for the duration of the current
	// transaction, serializing concurrent transitions on the same payment.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Payment, error)
	Create(ctx context.Context, p *ledger.Payment) error
	// UpdateStatus performs a compare-and-swap on the payment status and
	// reports whether a row was updated. A false return means the payment
	// was no longer in the expected status.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		from, to ledger.PaymentStatus,
		externalID *string,
		at time.Time,
	) (bool, error)
}

// TransactionRepository defines data access for the append-only
// transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx *ledger.Transaction) error
	// ExistsForPayment reports whether a transaction of the given type is
	// already recorded for the payment. This is the at-most-one guard for
	// charge and refund entries.
	ExistsForPayment(ctx context.Context, paymentID uuid.UUID, t ledger.TransactionType) (bool, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.Transaction, error)
}

// RevenueRepository defines data access for the cached revenue aggregate.
type RevenueRepository interface {
	// Get returns the cached revenue row, or nil when the company has no
	// revenue recorded yet.
	Get(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error)
	// GetForUpdate behaves like Get but locks the row for the current
	// transaction so concurrent read-modify-write cycles cannot race.
	GetForUpdate(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error)
	// Upsert writes the aggregate, inserting the row on first use.
	Upsert(ctx context.Context, r *ledger.CompanyRevenue) error
}
