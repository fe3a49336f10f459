package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/affiliates/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides a transaction boundary and repository access in one
// abstraction. Every repository obtained through a UoW inside Do is
// constructed from the same *gorm.DB transaction, so multi-record writes
// commit or roll back together.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.ProfileRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewProfileRepository(db) },
			reflect.TypeOf((*repository.CommissionRepository)(nil)).Elem():  func(db *gorm.DB) any { return NewCommissionRepository(db) },
			reflect.TypeOf((*repository.CompanyRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewCompanyRepository(db) },
			reflect.TypeOf((*repository.PaymentRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewPaymentRepository(db) },
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewTransactionRepository(db) },
			reflect.TypeOf((*repository.RevenueRepository)(nil)).Elem():     func(db *gorm.DB) any { return NewRevenueRepository(db) },
		},
	}
}

// Do runs fn in a transaction boundary, providing a UoW whose
// repositories share the transaction session.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository provides type-safe access to repositories using the
// transaction session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// ProfileRepository returns the profile repository bound to the current session.
func (u *UoW) ProfileRepository() (repository.ProfileRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.ProfileRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.ProfileRepository), nil
}

// CommissionRepository returns the commission repository bound to the current session.
func (u *UoW) CommissionRepository() (repository.CommissionRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.CommissionRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.CommissionRepository), nil
}

// CompanyRepository returns the company repository bound to the current session.
func (u *UoW) CompanyRepository() (repository.CompanyRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.CompanyRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.CompanyRepository), nil
}

// PaymentRepository returns the payment repository bound to the current session.
func (u *UoW) PaymentRepository() (repository.PaymentRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.PaymentRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.PaymentRepository), nil
}

// TransactionRepository returns the transaction repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.TransactionRepository), nil
}

// RevenueRepository returns the revenue repository bound to the current session.
func (u *UoW) RevenueRepository() (repository.RevenueRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.RevenueRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.RevenueRepository), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
