package repository

import (
	"context"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(&model.Transaction{
		ID:                tx.ID,
		PaymentID:         tx.PaymentID,
		CompanyID:         tx.CompanyID,
		TxType:            string(tx.Type),
		Amount:            tx.Amount,
		Fee:               tx.Fee,
		ExternalReference: tx.ExternalReference,
		CreatedAt:         tx.CreatedAt,
	}).Error
}

func (r *transactionRepository) ExistsForPayment(
	ctx context.Context,
	paymentID uuid.UUID,
	t ledger.TransactionType,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("payment_id = ? AND tx_type = ?", paymentID, string(t)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *transactionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.Transaction, error) {
	var ms []model.Transaction
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at asc").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Transaction, 0, len(ms))
	for i := range ms {
		m := &ms[i]
		out = append(out, &ledger.Transaction{
			ID:                m.ID,
			PaymentID:         m.PaymentID,
			CompanyID:         m.CompanyID,
			Type:              ledger.TransactionType(m.TxType),
			Amount:            m.Amount,
			Fee:               m.Fee,
			ExternalReference: m.ExternalReference,
			CreatedAt:         m.CreatedAt,
		})
	}
	return out, nil
}
