package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository bound to db.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate locks the payment row (SELECT ... FOR UPDATE) so
// concurrent transitions on the same payment serialize on the row lock.
func (r *paymentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *paymentRepository) get(tx *gorm.DB, id uuid.UUID) (*ledger.Payment, error) {
	var m model.Payment
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return paymentToDomain(&m)
}

func (r *paymentRepository) Create(ctx context.Context, p *ledger.Payment) error {
	m, err := paymentToModel(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// UpdateStatus compare-and-swaps the payment status. It reports false
// when no row matched the expected current status.
func (r *paymentRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to ledger.PaymentStatus,
	externalID *string,
	at time.Time,
) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	if externalID != nil {
		updates["external_id"] = *externalID
	}
	res := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func paymentToDomain(m *model.Payment) (*ledger.Payment, error) {
	metadata := map[string]any{}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return nil, err
		}
	}
	return &ledger.Payment{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		PayerID:    m.PayerID,
		Amount:     m.Amount,
		Fee:        m.Fee,
		Currency:   m.Currency,
		Status:     ledger.PaymentStatus(m.Status),
		ExternalID: m.ExternalID,
		Metadata:   metadata,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}

func paymentToModel(p *ledger.Payment) (*model.Payment, error) {
	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, err
	}
	return &model.Payment{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		PayerID:    p.PayerID,
		Amount:     p.Amount,
		Fee:        p.Fee,
		Currency:   p.Currency,
		Status:     string(p.Status),
		ExternalID: p.ExternalID,
		Metadata:   metadata,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}
