package company

import (
	"time"

	"github.com/amirasaad/affiliates/pkg/domain/ledger"
)

// CreateCompanyRequest creates a merchant company.
type CreateCompanyRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	OwnerID *string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
}

// CompanyResponse is the wire form of a company.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   *string   `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RevenueResponse is the wire form of the cached revenue aggregate.
type RevenueResponse struct {
	CompanyID    string    `json:"company_id"`
	TotalRevenue string    `json:"total_revenue"`
	LastUpdated  time.Time `json:"last_updated"`
}

// TransactionResponse is the wire form of a ledger entry.
type TransactionResponse struct {
	ID                string    `json:"id"`
	PaymentID         *string   `json:"payment_id,omitempty"`
	CompanyID         string    `json:"company_id"`
	TxType            string    `json:"tx_type"`
	Amount            string    `json:"amount"`
	Fee               string    `json:"fee"`
	NetAmount         string    `json:"net_amount"`
	ExternalReference *string   `json:"external_reference,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func toCompanyResponse(c *ledger.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
	if c.OwnerID != nil {
		s := c.OwnerID.String()
		resp.OwnerID = &s
	}
	return resp
}

func toRevenueResponse(r *ledger.CompanyRevenue) RevenueResponse {
	return RevenueResponse{
		CompanyID:    r.CompanyID.String(),
		TotalRevenue: r.TotalRevenue.StringFixed(2),
		LastUpdated:  r.LastUpdated,
	}
}

func toTransactionResponses(txs []*ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp := TransactionResponse{
			ID:                tx.ID.String(),
			CompanyID:         tx.CompanyID.String(),
			TxType:            string(tx.Type),
			Amount:            tx.Amount.StringFixed(2),
			Fee:               tx.Fee.StringFixed(2),
			NetAmount:         tx.NetAmount().StringFixed(2),
			ExternalReference: tx.ExternalReference,
			CreatedAt:         tx.CreatedAt,
		}
		if tx.PaymentID != nil {
			s := tx.PaymentID.String()
			resp.PaymentID = &s
		}
		out = append(out, resp)
	}
	return out
}
