// Package events defines the domain events published by the services
// after a transaction commits. Handlers run outside the transactional
// boundary; the ledger writes themselves never depend on a handler.
package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names used for subscription.
const (
	TypePaymentCompleted       = "PaymentCompleted"
	TypePaymentRefunded        = "PaymentRefunded"
	TypePaymentFailed          = "PaymentFailed"
	TypeCommissionsDistributed = "CommissionsDistributed"
	TypeRevenueRecomputed      = "RevenueRecomputed"
)

// PaymentCompleted is published once per payment after the charge
// transaction and revenue increment committed.
type PaymentCompleted struct {
	PaymentID uuid.UUID
	CompanyID uuid.UUID
	NetAmount decimal.Decimal
	Currency  string
}

func (PaymentCompleted) Type() string { return TypePaymentCompleted }

// PaymentRefunded is published once per payment after the refund
// transaction and revenue decrement committed.
type PaymentRefunded struct {
	PaymentID uuid.UUID
	CompanyID uuid.UUID
	NetAmount decimal.Decimal
	Currency  string
}

func (PaymentRefunded) Type() string { return TypePaymentRefunded }

// PaymentFailed is published when a pending payment is marked failed.
type PaymentFailed struct {
	PaymentID uuid.UUID
	CompanyID uuid.UUID
}

func (PaymentFailed) Type() string { return TypePaymentFailed }

// CommissionsDistributed is published after a distribution run committed.
type CommissionsDistributed struct {
	SourceUserID uuid.UUID
	SaleAmount   decimal.Decimal
	Count        int
}

func (CommissionsDistributed) Type() string { return TypeCommissionsDistributed }

// RevenueRecomputed is published after a full recomputation overwrote
// the cached total.
type RevenueRecomputed struct {
	CompanyID    uuid.UUID
	TotalRevenue decimal.Decimal
}

func (RevenueRecomputed) Type() string { return TypeRevenueRecomputed }
