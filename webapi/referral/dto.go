package referral

import (
	"time"

	"github.com/amirasaad/affiliates/pkg/domain/referral"
)

// CreateProfileRequest creates a referral profile for a user.
type CreateProfileRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// LinkReferralRequest assigns a user's referrer from a referral code.
type LinkReferralRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	ReferralCode string `json:"referral_code" validate:"required"`
}

// DistributeRequest distributes commissions for a sale. Amount and rates
// are decimal strings; rates default to the configured table when empty.
type DistributeRequest struct {
	SourceUserID string   `json:"source_user_id" validate:"required,uuid"`
	Amount       string   `json:"amount" validate:"required"`
	Rates        []string `json:"rates,omitempty" validate:"omitempty,dive,required"`
}

// ProfileResponse is the wire form of a referral profile.
type ProfileResponse struct {
	UserID       string    `json:"user_id"`
	ReferralCode string    `json:"referral_code"`
	ReferredBy   *string   `json:"referred_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommissionResponse is the wire form of a commission record.
type CommissionResponse struct {
	ID           string    `json:"id"`
	RecipientID  string    `json:"recipient_id"`
	SourceUserID string    `json:"source_user_id"`
	Amount       string    `json:"amount"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `json:"created_at"`
}

func toProfileResponse(p *referral.Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:       p.UserID.String(),
		ReferralCode: p.ReferralCode,
		CreatedAt:    p.CreatedAt,
	}
	if p.ReferredBy != nil {
		s := p.ReferredBy.String()
		resp.ReferredBy = &s
	}
	return resp
}

func toCommissionResponses(cs []*referral.Commission) []CommissionResponse {
	out := make([]CommissionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, CommissionResponse{
			ID:           c.ID.String(),
			RecipientID:  c.RecipientID.String(),
			SourceUserID: c.SourceUserID.String(),
			Amount:       c.Amount.StringFixed(2),
			Level:        c.Level,
			CreatedAt:    c.CreatedAt,
		})
	}
	return out
}
