// Package referral contains the referral-graph entities: the per-user
// Profile carrying the referred-by edge, and the immutable Commission
// records produced when a sale is distributed over an upline.
package referral

import (
	"strings"
	"time"

	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile is the referral record owned by a single user. ReferredBy is a
// back-reference to the referring user, not a live object reference; the
// upline is resolved purely through id lookups.
type Profile struct {
	UserID       uuid.UUID
	ReferralCode string
	ReferredBy   *uuid.UUID
	CreatedAt    time.Time
}

// NewProfile creates a profile for the given user with a fresh, unique
// referral code.
func NewProfile(userID uuid.UUID, now time.Time) *Profile {
	return &Profile{
		UserID:       userID,
		ReferralCode: uuid.NewString(),
		CreatedAt:    now,
	}
}

// UplineEntry is one resolved ancestor in a user's upline. Level 1 is the
// direct referrer.
type UplineEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Level  int       `json:"level"`
}

// Commission is an immutable record of a commission owed to an upline
// user for a sale made by SourceUserID. Created once by the distributor,
// never mutated by the core.
type Commission struct {
	ID           uuid.UUID
	RecipientID  uuid.UUID
	SourceUserID uuid.UUID
	Amount       decimal.Decimal
	Level        int
	CreatedAt    time.Time
}

// NewCommission builds a commission record.
// Invariants enforced:
//   - Amount must be positive.
//   - Level must be >= 1.
func NewCommission(
	recipientID, sourceUserID uuid.UUID,
	amount decimal.Decimal,
	level int,
	now time.Time,
) (*Commission, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if level < 1 {
		return nil, domain.ErrInvalidLevel
	}
	return &Commission{
		ID:           uuid.New(),
		RecipientID:  recipientID,
		SourceUserID: sourceUserID,
		Amount:       amount,
		Level:        level,
		CreatedAt:    now,
	}, nil
}

// ValidRateTable reports whether every rate is a fraction in (0, 1].
func ValidRateTable(rates []decimal.Decimal) bool {
	if len(rates) == 0 {
		return false
	}
	one := decimal.NewFromInt(1)
	for _, r := range rates {
		if !r.IsPositive() || r.GreaterThan(one) {
			return false
		}
	}
	return true
}

// ParseRateTable parses a comma-separated list of fractional rates, e.g.
// "0.10,0.05,0.02". Index 0 is the level-1 rate.
func ParseRateTable(s string) ([]decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, domain.ErrEmptyRateTable
	}
	parts := strings.Split(s, ",")
	rates := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		r, err := decimal.NewFromString(strings.TrimSpace(p))
		if err != nil {
			return nil, domain.ErrInvalidAmount
		}
		rates = append(rates, r)
	}
	if len(rates) == 0 {
		return nil, domain.ErrEmptyRateTable
	}
	if !ValidRateTable(rates) {
		return nil, domain.ErrInvalidAmount
	}
	return rates, nil
}
