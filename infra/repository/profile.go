// Package repository contains the GORM-backed implementations of the
// data-access interfaces in pkg/repository, plus the UnitOfWork binding
// them to one transaction.
package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/affiliates/infra/repository/model"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/referral"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a profile repository bound to db.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID) (*referral.Profile, error) {
	var m model.Profile
	if err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profileToDomain(&m), nil
}

func (r *profileRepository) GetByCode(ctx context.Context, code string) (*referral.Profile, error) {
	var m model.Profile
	if err := r.db.WithContext(ctx).First(&m, "referral_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profileToDomain(&m), nil
}

func (r *profileRepository) Create(ctx context.Context, p *referral.Profile) error {
	return r.db.WithContext(ctx).Create(profileToModel(p)).Error
}

func (r *profileRepository) Update(ctx context.Context, p *referral.Profile) error {
	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]any{"referred_by": p.ReferredBy}).Error
}

func profileToDomain(m *model.Profile) *referral.Profile {
	return &referral.Profile{
		UserID:       m.UserID,
		ReferralCode: m.ReferralCode,
		ReferredBy:   m.ReferredBy,
		CreatedAt:    m.CreatedAt,
	}
}

func profileToModel(p *referral.Profile) *model.Profile {
	return &model.Profile{
		UserID:       p.UserID,
		ReferralCode: p.ReferralCode,
		ReferredBy:   p.ReferredBy,
		CreatedAt:    p.CreatedAt,
	}
}
