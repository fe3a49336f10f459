// Package ledger contains the merchant-side entities: companies, their
// payments, the append-only transaction log, and the cached revenue
// aggregate derived from it.
//
// Monetary values are fixed-point decimals with two fraction digits.
// Binary floating point is never used for amounts.
package ledger

import (
	"regexp"
	"time"

	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// DefaultCurrency is used when a payment is recorded without a currency.
const DefaultCurrency = "USD"

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// CanTransitionTo reports whether the status machine allows moving from s
// to target. Allowed edges: pending -> completed|failed, completed ->
// refunded. failed and refunded are terminal.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return target == PaymentCompleted || target == PaymentFailed
	case PaymentCompleted:
		return target == PaymentRefunded
	default:
		return false
	}
}

// TransactionType is the kind of ledger entry recorded against a company.
type TransactionType string

const (
	TransactionCharge TransactionType = "charge"
	TransactionRefund TransactionType = "refund"
	TransactionPayout TransactionType = "payout"
)

// Company is a merchant entity owning payments.
type Company struct {
	ID        uuid.UUID
	Name      string
	OwnerID   *uuid.UUID
	CreatedAt time.Time
}

// NewCompany creates a company record.
func NewCompany(name string, ownerID *uuid.UUID, now time.Time) *Company {
	return &Company{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
	}
}

// Payment is a single monetary event against a company. Its lifecycle is
// governed exclusively by the transition methods below.
type Payment struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	PayerID    *uuid.UUID
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Currency   string
	Status     PaymentStatus
	ExternalID *string
	Metadata   map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPayment creates a pending payment.
// Invariants enforced:
//   - Amount must be positive.
//   - Fee must be non-negative and must not exceed the amount.
//   - Currency must be a well-formed ISO 4217 code; empty defaults to USD.
func NewPayment(
	companyID uuid.UUID,
	amount, fee decimal.Decimal,
	currency string,
	payerID *uuid.UUID,
	externalID *string,
	metadata map[string]any,
	now time.Time,
) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if fee.IsNegative() || fee.GreaterThan(amount) {
		return nil, domain.ErrInvalidFee
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if !currencyRe.MatchString(currency) {
		return nil, domain.ErrInvalidCurrencyCode
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Payment{
		ID:         uuid.New(),
		CompanyID:  companyID,
		PayerID:    payerID,
		Amount:     amount.Round(2),
		Fee:        fee.Round(2),
		Currency:   currency,
		Status:     PaymentPending,
		ExternalID: externalID,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NetAmount returns amount minus fee.
func (p *Payment) NetAmount() decimal.Decimal {
	return p.Amount.Sub(p.Fee)
}

// Complete moves the payment to completed. An optional gateway id
// replaces ExternalID.
func (p *Payment) Complete(externalID *string, now time.Time) error {
	if !p.Status.CanTransitionTo(PaymentCompleted) {
		return domain.ErrInvalidTransition
	}
	if externalID != nil {
		p.ExternalID = externalID
	}
	p.Status = PaymentCompleted
	p.UpdatedAt = now
	return nil
}

// Refund moves a completed payment to refunded. An optional external
// reference replaces ExternalID.
func (p *Payment) Refund(externalRef *string, now time.Time) error {
	if !p.Status.CanTransitionTo(PaymentRefunded) {
		return domain.ErrInvalidTransition
	}
	if externalRef != nil {
		p.ExternalID = externalRef
	}
	p.Status = PaymentRefunded
	p.UpdatedAt = now
	return nil
}

// Fail moves a pending payment to failed. Failed payments never touch
// the ledger.
func (p *Payment) Fail(now time.Time) error {
	if !p.Status.CanTransitionTo(PaymentFailed) {
		return domain.ErrInvalidTransition
	}
	p.Status = PaymentFailed
	p.UpdatedAt = now
	return nil
}

// Transaction is an immutable ledger entry. At most one charge and one
// refund transaction may exist per payment; that pair of rows is the
// idempotence guard for payment transitions.
type Transaction struct {
	ID                uuid.UUID
	PaymentID         *uuid.UUID
	CompanyID         uuid.UUID
	Type              TransactionType
	Amount            decimal.Decimal
	Fee               decimal.Decimal
	ExternalReference *string
	CreatedAt         time.Time
}

// NetAmount returns amount minus fee.
func (t *Transaction) NetAmount() decimal.Decimal {
	return t.Amount.Sub(t.Fee)
}

// NewChargeTransaction records the charge for a completed payment.
func NewChargeTransaction(p *Payment, now time.Time) *Transaction {
	return newPaymentTransaction(p, TransactionCharge, now)
}

// NewRefundTransaction records the refund for a refunded payment.
func NewRefundTransaction(p *Payment, now time.Time) *Transaction {
	return newPaymentTransaction(p, TransactionRefund, now)
}

func newPaymentTransaction(p *Payment, t TransactionType, now time.Time) *Transaction {
	id := p.ID
	return &Transaction{
		ID:                uuid.New(),
		PaymentID:         &id,
		CompanyID:         p.CompanyID,
		Type:              t,
		Amount:            p.Amount,
		Fee:               p.Fee,
		ExternalReference: p.ExternalID,
		CreatedAt:         now,
	}
}

// CompanyRevenue is the cached revenue aggregate for one company. It is
// owned by the revenue aggregator and always reproducible from the
// transaction log.
type CompanyRevenue struct {
	CompanyID    uuid.UUID
	TotalRevenue decimal.Decimal
	LastUpdated  time.Time
}

// NewCompanyRevenue returns a zero-valued revenue row for the company.
func NewCompanyRevenue(companyID uuid.UUID, now time.Time) *CompanyRevenue {
	return &CompanyRevenue{
		CompanyID:    companyID,
		TotalRevenue: decimal.Zero,
		LastUpdated:  now,
	}
}

// Add increments the cached total by net.
func (r *CompanyRevenue) Add(net decimal.Decimal, now time.Time) {
	r.TotalRevenue = r.TotalRevenue.Add(net)
	r.LastUpdated = now
}

// Subtract decrements the cached total by net, clamping at zero. The
// cache never shows negative revenue even when refunds exceed recorded
// charges.
func (r *CompanyRevenue) Subtract(net decimal.Decimal, now time.Time) {
	r.TotalRevenue = r.TotalRevenue.Sub(net)
	if r.TotalRevenue.IsNegative() {
		r.TotalRevenue = decimal.Zero
	}
	r.LastUpdated = now
}

// SumTransactions folds a transaction history into the aggregate total:
// +net for charges, -net for refunds and payouts, clamped at zero. The
// result matches applying the incremental updates in event order from an
// empty ledger.
func SumTransactions(txs []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case TransactionCharge:
			total = total.Add(tx.NetAmount())
		case TransactionRefund, TransactionPayout:
			total = total.Sub(tx.NetAmount())
		}
	}
	if total.IsNegative() {
		total = decimal.Zero
	}
	return total
}
