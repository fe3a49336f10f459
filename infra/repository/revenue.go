package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type revenueRepository struct {
	db *gorm.DB
}

// NewRevenueRepository creates a revenue repository bound to db.
func NewRevenueRepository(db *gorm.DB) repository.RevenueRepository {
	return &revenueRepository{db: db}
}

func (r *revenueRepository) Get(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error) {
	return r.get(r.db.WithContext(ctx), companyID)
}

// GetForUpdate locks the revenue row so concurrent read-modify-write
// cycles on the same company serialize.
func (r *revenueRepository) GetForUpdate(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), companyID)
}

func (r *revenueRepository) get(tx *gorm.DB, companyID uuid.UUID) (*ledger.CompanyRevenue, error) {
	var m model.CompanyRevenue
	if err := tx.First(&m, "company_id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ledger.CompanyRevenue{
		CompanyID:    m.CompanyID,
		TotalRevenue: m.TotalRevenue,
		LastUpdated:  m.LastUpdated,
	}, nil
}

func (r *revenueRepository) Upsert(ctx context.Context, rev *ledger.CompanyRevenue) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_revenue", "last_updated"}),
		}).
		Create(&model.CompanyRevenue{
			CompanyID:    rev.CompanyID,
			TotalRevenue: rev.TotalRevenue,
			LastUpdated:  rev.LastUpdated,
		}).Error
}
