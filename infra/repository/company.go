package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a company repository bound to db.
func NewCompanyRepository(db *gorm.DB) repository.CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Company, error) {
	var m model.Company
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return companyToDomain(&m), nil
}

func (r *companyRepository) Create(ctx context.Context, c *ledger.Company) error {
	return r.db.WithContext(ctx).Create(&model.Company{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
	}).Error
}

func (r *companyRepository) List(ctx context.Context) ([]*ledger.Company, error) {
	var ms []model.Company
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*ledger.Company, 0, len(ms))
	for i := range ms {
		out = append(out, companyToDomain(&ms[i]))
	}
	return out, nil
}

func companyToDomain(m *model.Company) *ledger.Company {
	return &ledger.Company{
		ID:        m.ID,
		Name:      m.Name,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}
}
