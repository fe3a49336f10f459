// Package model contains the GORM persistence models. Mapping to and
// from domain entities happens in the repository implementations.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile persists one referral edge per user.
type Profile struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferralCode string     `gorm:"uniqueIndex;not null;size:64"`
	ReferredBy   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
}

// Commission persists an immutable commission record.
type Commission struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RecipientID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	SourceUserID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Level        int             `gorm:"not null"`
	CreatedAt    time.Time
}

// Company persists a merchant entity.
type Company struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"size:255;not null"`
	OwnerID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}

// CompanyRevenue persists the cached revenue aggregate, one row per
// company.
type CompanyRevenue struct {
	CompanyID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TotalRevenue decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LastUpdated  time.Time
}

// Payment persists a payment. Metadata is stored as raw JSON.
type Payment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	PayerID    *uuid.UUID `gorm:"type:uuid;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Fee        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Currency   string          `gorm:"type:varchar(10);not null;default:'USD'"`
	Status     string          `gorm:"type:varchar(20);index;not null;default:'pending'"`
	ExternalID *string         `gorm:"size:255"`
	Metadata   []byte          `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Transaction persists an immutable ledger entry. The unique index on
// (payment_id, tx_type) backs the at-most-one charge/refund guard.
type Transaction struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PaymentID         *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_tx_payment_type"`
	CompanyID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	TxType            string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_tx_payment_type"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Fee               decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ExternalReference *string         `gorm:"size:255"`
	CreatedAt         time.Time
}
