package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access.
//
// GetRepository is part of UnitOfWork so every repository obtained inside
// Do is bound to the same DB session, keeping multi-record writes atomic.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. fn receives a
	// UnitOfWork whose repositories share the transaction session. If fn
	// returns an error the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	// Type-safe convenience accessors.
	ProfileRepository() (ProfileRepository, error)
	CommissionRepository() (CommissionRepository, error)
	CompanyRepository() (CompanyRepository, error)
	PaymentRepository() (PaymentRepository, error)
	TransactionRepository() (TransactionRepository, error)
	RevenueRepository() (RevenueRepository, error)
}
