package repository

import (
	"context"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain/referral"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a commission repository bound to db.
func NewCommissionRepository(db *gorm.DB) repository.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(ctx context.Context, c *referral.Commission) error {
	return r.db.WithContext(ctx).Create(commissionToModel(c)).Error
}

func (r *commissionRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*referral.Commission, error) {
	return r.list(ctx, "recipient_id = ?", recipientID)
}

func (r *commissionRepository) ListBySource(ctx context.Context, sourceUserID uuid.UUID) ([]*referral.Commission, error) {
	return r.list(ctx, "source_user_id = ?", sourceUserID)
}

func (r *commissionRepository) list(ctx context.Context, cond string, id uuid.UUID) ([]*referral.Commission, error) {
	var ms []model.Commission
	if err := r.db.WithContext(ctx).Where(cond, id).Order("level asc, created_at asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*referral.Commission, 0, len(ms))
	for i := range ms {
		out = append(out, commissionToDomain(&ms[i]))
	}
	return out, nil
}

func commissionToDomain(m *model.Commission) *referral.Commission {
	return &referral.Commission{
		ID:           m.ID,
		RecipientID:  m.RecipientID,
		SourceUserID: m.SourceUserID,
		Amount:       m.Amount,
		Level:        m.Level,
		CreatedAt:    m.CreatedAt,
	}
}

func commissionToModel(c *referral.Commission) *model.Commission {
	return &model.Commission{
		ID:           c.ID,
		RecipientID:  c.RecipientID,
		SourceUserID: c.SourceUserID,
		Amount:       c.Amount,
		Level:        c.Level,
		CreatedAt:    c.CreatedAt,
	}
}
