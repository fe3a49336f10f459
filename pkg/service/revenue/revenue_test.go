package revenue_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/affiliates/infra/eventbus"
	"github.com/amirasaad/affiliates/internal/fixtures"
	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/events"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	paymentsvc "github.com/amirasaad/affiliates/pkg/service/payment"
	revenuesvc "github.com/amirasaad/affiliates/pkg/service/revenue"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestServices(t *testing.T) (*revenuesvc.Service, *paymentsvc.Service, *fixtures.Store, *infraeventbus.MemoryEventBus) {
	t.Helper()
	store := fixtures.NewStore()
	bus := infraeventbus.NewWithMemory(slog.Default())
	deps := config.Deps{
		Uow:      fixtures.NewUoW(store),
		EventBus: bus,
		Clock:    fixtures.NewFixedClock(now),
		Logger:   slog.Default(),
	}
	return revenuesvc.NewService(deps), paymentsvc.NewService(deps), store, bus
}

func TestCreateCompany(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	owner := uuid.New()

	c, err := svc.CreateCompany(context.Background(), "Acme", &owner)
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	require.NotNil(t, c.OwnerID)
	assert.Equal(t, owner, *c.OwnerID)
}

func TestGet_ZeroForNewCompany(t *testing.T) {
	svc, _, _, _ := newTestServices(t)

	c, err := svc.CreateCompany(context.Background(), "Acme", nil)
	require.NoError(t, err)

	rev, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, rev.CompanyID)
	assert.True(t, rev.TotalRevenue.IsZero())
}

func TestGet_UnknownCompany(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestRecompute_MatchesIncrementalUpdates(t *testing.T) {
	revSvc, paySvc, store, _ := newTestServices(t)
	ctx := context.Background()

	c, err := revSvc.CreateCompany(ctx, "Acme", nil)
	require.NoError(t, err)

	// complete two payments, refund one
	p1, err := paySvc.Record(ctx, paymentsvc.RecordInput{CompanyID: c.ID, Amount: d("120.00"), Fee: d("2.50")})
	require.NoError(t, err)
	p2, err := paySvc.Record(ctx, paymentsvc.RecordInput{CompanyID: c.ID, Amount: d("80.00")})
	require.NoError(t, err)
	_, err = paySvc.Complete(ctx, p1.ID, nil)
	require.NoError(t, err)
	_, err = paySvc.Complete(ctx, p2.ID, nil)
	require.NoError(t, err)
	_, err = paySvc.Refund(ctx, p2.ID, nil)
	require.NoError(t, err)

	incremental, ok := store.Revenue(c.ID)
	require.True(t, ok)

	rev, err := revSvc.Recompute(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "117.50", rev.TotalRevenue.StringFixed(2))
	assert.True(t, rev.TotalRevenue.Equal(incremental.TotalRevenue))
}

func TestRecompute_OverwritesDriftedCache(t *testing.T) {
	revSvc, paySvc, store, bus := newTestServices(t)
	ctx := context.Background()

	c, err := revSvc.CreateCompany(ctx, "Acme", nil)
	require.NoError(t, err)
	p, err := paySvc.Record(ctx, paymentsvc.RecordInput{CompanyID: c.ID, Amount: d("50.00")})
	require.NoError(t, err)
	_, err = paySvc.Complete(ctx, p.ID, nil)
	require.NoError(t, err)

	// corrupt the cache; recompute must restore the ledger-derived value
	drifted := ledger.NewCompanyRevenue(c.ID, now)
	drifted.TotalRevenue = d("999.99")
	uow := fixtures.NewUoW(store)
	revenues, err := uow.RevenueRepository()
	require.NoError(t, err)
	require.NoError(t, revenues.Upsert(ctx, drifted))
	bus.ClearPublished()

	rev, err := revSvc.Recompute(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "50.00", rev.TotalRevenue.StringFixed(2))

	published := bus.Published()
	require.Len(t, published, 1)
	ev := published[0].(events.RevenueRecomputed)
	assert.Equal(t, c.ID, ev.CompanyID)
}

func TestRecompute_ClampsAtZero(t *testing.T) {
	revSvc, _, store, _ := newTestServices(t)
	ctx := context.Background()

	c, err := revSvc.CreateCompany(ctx, "Acme", nil)
	require.NoError(t, err)

	// a lone refund row would sum negative; the aggregate clamps
	store.SeedTransaction(&ledger.Transaction{
		ID:        uuid.New(),
		CompanyID: c.ID,
		Type:      ledger.TransactionRefund,
		Amount:    d("30.00"),
		Fee:       d("0.00"),
		CreatedAt: now,
	})

	rev, err := revSvc.Recompute(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, rev.TotalRevenue.IsZero())
}

func TestRecompute_UnknownCompany(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	_, err := svc.Recompute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestListTransactions(t *testing.T) {
	revSvc, paySvc, _, _ := newTestServices(t)
	ctx := context.Background()

	c, err := revSvc.CreateCompany(ctx, "Acme", nil)
	require.NoError(t, err)
	p, err := paySvc.Record(ctx, paymentsvc.RecordInput{CompanyID: c.ID, Amount: d("50.00")})
	require.NoError(t, err)
	_, err = paySvc.Complete(ctx, p.ID, nil)
	require.NoError(t, err)

	txs, err := revSvc.ListTransactions(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.TransactionCharge, txs[0].Type)

	_, err = revSvc.ListTransactions(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestReconcileAll(t *testing.T) {
	revSvc, paySvc, store, _ := newTestServices(t)
	ctx := context.Background()

	c1, err := revSvc.CreateCompany(ctx, "Acme", nil)
	require.NoError(t, err)
	c2, err := revSvc.CreateCompany(ctx, "Globex", nil)
	require.NoError(t, err)

	p, err := paySvc.Record(ctx, paymentsvc.RecordInput{CompanyID: c1.ID, Amount: d("25.00")})
	require.NoError(t, err)
	_, err = paySvc.Complete(ctx, p.ID, nil)
	require.NoError(t, err)

	require.NoError(t, revSvc.ReconcileAll(ctx))

	r1, ok := store.Revenue(c1.ID)
	require.True(t, ok)
	assert.Equal(t, "25.00", r1.TotalRevenue.StringFixed(2))

	r2, ok := store.Revenue(c2.ID)
	require.True(t, ok)
	assert.True(t, r2.TotalRevenue.IsZero())
}
