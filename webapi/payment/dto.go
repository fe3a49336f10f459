package payment

import (
	"time"

	"github.com/amirasaad/affiliates/pkg/domain/ledger"
)

// RecordPaymentRequest records a new pending payment. Amount and fee are
// decimal strings.
type RecordPaymentRequest struct {
	CompanyID  string         `json:"company_id" validate:"required,uuid"`
	Amount     string         `json:"amount" validate:"required"`
	Fee        string         `json:"fee,omitempty"`
	Currency   string         `json:"currency,omitempty" validate:"omitempty,len=3"`
	PayerID    *string        `json:"payer_id,omitempty" validate:"omitempty,uuid"`
	ExternalID *string        `json:"external_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// CompletePaymentRequest optionally carries the gateway transaction id.
type CompletePaymentRequest struct {
	ExternalID *string `json:"external_id,omitempty"`
}

// RefundPaymentRequest optionally carries the gateway refund reference.
type RefundPaymentRequest struct {
	ExternalReference *string `json:"external_reference,omitempty"`
}

// PaymentResponse is the wire form of a payment.
type PaymentResponse struct {
	ID         string         `json:"id"`
	CompanyID  string         `json:"company_id"`
	PayerID    *string        `json:"payer_id,omitempty"`
	Amount     string         `json:"amount"`
	Fee        string         `json:"fee"`
	NetAmount  string         `json:"net_amount"`
	Currency   string         `json:"currency"`
	Status     string         `json:"status"`
	ExternalID *string        `json:"external_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func toPaymentResponse(p *ledger.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:         p.ID.String(),
		CompanyID:  p.CompanyID.String(),
		Amount:     p.Amount.StringFixed(2),
		Fee:        p.Fee.StringFixed(2),
		NetAmount:  p.NetAmount().StringFixed(2),
		Currency:   p.Currency,
		Status:     string(p.Status),
		ExternalID: p.ExternalID,
		Metadata:   p.Metadata,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.PayerID != nil {
		s := p.PayerID.String()
		resp.PayerID = &s
	}
	return resp
}
