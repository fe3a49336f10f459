// Package fixtures provides in-memory repository and unit-of-work fakes
// for service tests. The fakes honor the same contracts as the database
// implementations, including rollback on error and the compare-and-swap
// status update.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/amirasaad/affiliates/pkg/domain/referral"
	"github.com/amirasaad/affiliates/pkg/repository"
	"github.com/google/uuid"
)

// Store holds all in-memory state shared by the fake repositories.
// Error-injection fields let tests force failures mid-transaction.
type Store struct {
	mu sync.Mutex

	profiles     map[uuid.UUID]referral.Profile
	commissions  []referral.Commission
	companies    map[uuid.UUID]ledger.Company
	payments     map[uuid.UUID]ledger.Payment
	transactions []ledger.Transaction
	revenues     map[uuid.UUID]ledger.CompanyRevenue

	// When set, the matching repository method returns the error.
	FailCommissionCreate  error
	FailTransactionCreate error
	FailRevenueUpsert     error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		profiles:  make(map[uuid.UUID]referral.Profile),
		companies: make(map[uuid.UUID]ledger.Company),
		payments:  make(map[uuid.UUID]ledger.Payment),
		revenues:  make(map[uuid.UUID]ledger.CompanyRevenue),
	}
}

func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.profiles {
		snap.profiles[k] = v
	}
	for k, v := range s.companies {
		snap.companies[k] = v
	}
	for k, v := range s.payments {
		snap.payments[k] = v
	}
	for k, v := range s.revenues {
		snap.revenues[k] = v
	}
	snap.commissions = append([]referral.Commission(nil), s.commissions...)
	snap.transactions = append([]ledger.Transaction(nil), s.transactions...)
	return snap
}

func (s *Store) restore(snap *Store) {
	s.profiles = snap.profiles
	s.companies = snap.companies
	s.payments = snap.payments
	s.revenues = snap.revenues
	s.commissions = snap.commissions
	s.transactions = snap.transactions
}

// Seed helpers used by tests to arrange state directly.

// SeedProfile stores a profile.
func (s *Store) SeedProfile(p *referral.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = *p
}

// SeedCompany stores a company.
func (s *Store) SeedCompany(c *ledger.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = *c
}

// SeedPayment stores a payment.
func (s *Store) SeedPayment(p *ledger.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[p.ID] = *p
}

// SeedTransaction appends a ledger entry.
func (s *Store) SeedTransaction(tx *ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, *tx)
}

// Payment returns a copy of the stored payment for assertions.
func (s *Store) Payment(id uuid.UUID) (ledger.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	return p, ok
}

// Transactions returns a copy of the ledger for assertions.
func (s *Store) Transactions() []ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.Transaction(nil), s.transactions...)
}

// Commissions returns a copy of the commission records for assertions.
func (s *Store) Commissions() []referral.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]referral.Commission(nil), s.commissions...)
}

// Revenue returns a copy of the stored revenue row for assertions.
func (s *Store) Revenue(companyID uuid.UUID) (ledger.CompanyRevenue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.revenues[companyID]
	return r, ok
}

// UoW is an in-memory repository.UnitOfWork. Do snapshots the store and
// restores it when fn fails, mimicking transactional rollback.
type UoW struct {
	store *Store
}

// NewUoW returns a unit of work over the store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

var _ repository.UnitOfWork = (*UoW)(nil)

// Do runs fn, rolling the store back when fn returns an error.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.mu.Lock()
	snap := u.store.snapshot()
	u.store.mu.Unlock()
	if err := fn(u); err != nil {
		u.store.mu.Lock()
		u.store.restore(snap)
		u.store.mu.Unlock()
		return err
	}
	return nil
}

// GetRepository returns a fake repository for the requested interface.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.ProfileRepository)(nil)).Elem():
		return &profileRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.CommissionRepository)(nil)).Elem():
		return &commissionRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.CompanyRepository)(nil)).Elem():
		return &companyRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.PaymentRepository)(nil)).Elem():
		return &paymentRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &transactionRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.RevenueRepository)(nil)).Elem():
		return &revenueRepo{store: u.store}, nil
	}
	return nil, fmt.Errorf("unsupported repository type: %v", repoType)
}

// ProfileRepository returns the profile fake.
func (u *UoW) ProfileRepository() (repository.ProfileRepository, error) {
	return &profileRepo{store: u.store}, nil
}

// CommissionRepository returns the commission fake.
func (u *UoW) CommissionRepository() (repository.CommissionRepository, error) {
	return &commissionRepo{store: u.store}, nil
}

// CompanyRepository returns the company fake.
func (u *UoW) CompanyRepository() (repository.CompanyRepository, error) {
	return &companyRepo{store: u.store}, nil
}

// PaymentRepository returns the payment fake.
func (u *UoW) PaymentRepository() (repository.PaymentRepository, error) {
	return &paymentRepo{store: u.store}, nil
}

// TransactionRepository returns the transaction fake.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{store: u.store}, nil
}

// RevenueRepository returns the revenue fake.
func (u *UoW) RevenueRepository() (repository.RevenueRepository, error) {
	return &revenueRepo{store: u.store}, nil
}

type profileRepo struct{ store *Store }

func (r *profileRepo) Get(ctx context.Context, userID uuid.UUID) (*referral.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r *profileRepo) GetByCode(ctx context.Context, code string) (*referral.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.profiles {
		if p.ReferralCode == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *profileRepo) Create(ctx context.Context, p *referral.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.profiles[p.UserID] = *p
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p *referral.Profile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.profiles[p.UserID]; !ok {
		return domain.ErrProfileNotFound
	}
	r.store.profiles[p.UserID] = *p
	return nil
}

type commissionRepo struct{ store *Store }

func (r *commissionRepo) Create(ctx context.Context, c *referral.Commission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailCommissionCreate != nil {
		return r.store.FailCommissionCreate
	}
	r.store.commissions = append(r.store.commissions, *c)
	return nil
}

func (r *commissionRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*referral.Commission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*referral.Commission
	for i := range r.store.commissions {
		if r.store.commissions[i].RecipientID == recipientID {
			cp := r.store.commissions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *commissionRepo) ListBySource(ctx context.Context, sourceUserID uuid.UUID) ([]*referral.Commission, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*referral.Commission
	for i := range r.store.commissions {
		if r.store.commissions[i].SourceUserID == sourceUserID {
			cp := r.store.commissions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type companyRepo struct{ store *Store }

func (r *companyRepo) Get(ctx context.Context, id uuid.UUID) (*ledger.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	return &c, nil
}

func (r *companyRepo) Create(ctx context.Context, c *ledger.Company) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.companies[c.ID] = *c
	return nil
}

func (r *companyRepo) List(ctx context.Context) ([]*ledger.Company, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*ledger.Company, 0, len(r.store.companies))
	for _, c := range r.store.companies {
		cp := c
		out = append(out, &cp)
	}
	return out, nil
}

type paymentRepo struct{ store *Store }

func (r *paymentRepo) Get(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *paymentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	return r.Get(ctx, id)
}

func (r *paymentRepo) Create(ctx context.Context, p *ledger.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.payments[p.ID] = *p
	return nil
}

func (r *paymentRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to ledger.PaymentStatus,
	externalID *string,
	at time.Time,
) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.payments[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	if externalID != nil {
		p.ExternalID = externalID
	}
	p.UpdatedAt = at
	r.store.payments[id] = p
	return true, nil
}

type transactionRepo struct{ store *Store }

func (r *transactionRepo) Create(ctx context.Context, tx *ledger.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailTransactionCreate != nil {
		return r.store.FailTransactionCreate
	}
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *transactionRepo) ExistsForPayment(ctx context.Context, paymentID uuid.UUID, t ledger.TransactionType) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.transactions {
		tx := &r.store.transactions[i]
		if tx.PaymentID != nil && *tx.PaymentID == paymentID && tx.Type == t {
			return true, nil
		}
	}
	return false, nil
}

func (r *transactionRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*ledger.Transaction
	for i := range r.store.transactions {
		if r.store.transactions[i].CompanyID == companyID {
			cp := r.store.transactions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type revenueRepo struct{ store *Store }

func (r *revenueRepo) Get(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rev, ok := r.store.revenues[companyID]
	if !ok {
		return nil, nil
	}
	return &rev, nil
}

func (r *revenueRepo) GetForUpdate(ctx context.Context, companyID uuid.UUID) (*ledger.CompanyRevenue, error) {
	return r.Get(ctx, companyID)
}

func (r *revenueRepo) Upsert(ctx context.Context, rev *ledger.CompanyRevenue) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.FailRevenueUpsert != nil {
		return r.store.FailRevenueUpsert
	}
	r.store.revenues[rev.CompanyID] = *rev
	return nil
}
