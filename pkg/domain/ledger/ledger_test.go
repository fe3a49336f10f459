package ledger_test

import (
	"testing"
	"time"

	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newPayment(t *testing.T, amount, fee string) *ledger.Payment {
	t.Helper()
	p, err := ledger.NewPayment(uuid.New(), d(amount), d(fee), "USD", nil, nil, nil, now)
	require.NoError(t, err)
	return p
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ledger.PaymentStatus
		want     bool
	}{
		{ledger.PaymentPending, ledger.PaymentCompleted, true},
		{ledger.PaymentPending, ledger.PaymentFailed, true},
		{ledger.PaymentPending, ledger.PaymentRefunded, false},
		{ledger.PaymentCompleted, ledger.PaymentRefunded, true},
		{ledger.PaymentCompleted, ledger.PaymentFailed, false},
		{ledger.PaymentCompleted, ledger.PaymentPending, false},
		{ledger.PaymentFailed, ledger.PaymentCompleted, false},
		{ledger.PaymentFailed, ledger.PaymentRefunded, false},
		{ledger.PaymentRefunded, ledger.PaymentCompleted, false},
		{ledger.PaymentRefunded, ledger.PaymentPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestNewPayment_Validation(t *testing.T) {
	companyID := uuid.New()

	_, err := ledger.NewPayment(companyID, d("0"), d("0"), "USD", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = ledger.NewPayment(companyID, d("-5"), d("0"), "USD", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = ledger.NewPayment(companyID, d("10"), d("-1"), "USD", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidFee)

	_, err = ledger.NewPayment(companyID, d("10"), d("10.01"), "USD", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidFee)

	_, err = ledger.NewPayment(companyID, d("10"), d("0"), "usd", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyCode)

	_, err = ledger.NewPayment(companyID, d("10"), d("0"), "EURO", nil, nil, nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrencyCode)

	p, err := ledger.NewPayment(companyID, d("10"), d("0"), "", nil, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, ledger.PaymentPending, p.Status)
}

func TestNewPayment_RoundsToTwoPlaces(t *testing.T) {
	p, err := ledger.NewPayment(uuid.New(), d("10.005"), d("0.125"), "USD", nil, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "10.01", p.Amount.StringFixed(2))
	assert.Equal(t, "0.13", p.Fee.StringFixed(2))
}

func TestNetAmount(t *testing.T) {
	p := newPayment(t, "120.00", "2.50")
	assert.Equal(t, "117.50", p.NetAmount().StringFixed(2))
}

func TestPaymentTransitions(t *testing.T) {
	p := newPayment(t, "50.00", "0.00")
	later := now.Add(time.Minute)

	require.NoError(t, p.Complete(nil, later))
	assert.Equal(t, ledger.PaymentCompleted, p.Status)
	assert.Equal(t, later, p.UpdatedAt)

	// completed payments cannot complete or fail again
	assert.ErrorIs(t, p.Complete(nil, later), domain.ErrInvalidTransition)
	assert.ErrorIs(t, p.Fail(later), domain.ErrInvalidTransition)

	require.NoError(t, p.Refund(nil, later))
	assert.Equal(t, ledger.PaymentRefunded, p.Status)
	assert.ErrorIs(t, p.Refund(nil, later), domain.ErrInvalidTransition)
}

func TestFail_OnlyFromPending(t *testing.T) {
	p := newPayment(t, "50.00", "0.00")
	require.NoError(t, p.Fail(now))
	assert.Equal(t, ledger.PaymentFailed, p.Status)
	assert.ErrorIs(t, p.Complete(nil, now), domain.ErrInvalidTransition)
}

func TestComplete_SetsExternalID(t *testing.T) {
	p := newPayment(t, "50.00", "0.00")
	ref := "ch_123"
	require.NoError(t, p.Complete(&ref, now))
	require.NotNil(t, p.ExternalID)
	assert.Equal(t, "ch_123", *p.ExternalID)
}

func TestPaymentTransactions_CopyPaymentAmounts(t *testing.T) {
	p := newPayment(t, "120.00", "2.50")
	require.NoError(t, p.Complete(nil, now))

	charge := ledger.NewChargeTransaction(p, now)
	assert.Equal(t, ledger.TransactionCharge, charge.Type)
	require.NotNil(t, charge.PaymentID)
	assert.Equal(t, p.ID, *charge.PaymentID)
	assert.Equal(t, "117.50", charge.NetAmount().StringFixed(2))

	refund := ledger.NewRefundTransaction(p, now)
	assert.Equal(t, ledger.TransactionRefund, refund.Type)
	assert.Equal(t, "117.50", refund.NetAmount().StringFixed(2))
}

func TestCompanyRevenue_SubtractClampsAtZero(t *testing.T) {
	rev := ledger.NewCompanyRevenue(uuid.New(), now)
	rev.Add(d("10.00"), now)
	rev.Subtract(d("25.00"), now)
	assert.True(t, rev.TotalRevenue.IsZero())
}

func TestSumTransactions(t *testing.T) {
	companyID := uuid.New()
	p1 := newPayment(t, "120.00", "2.50")
	p1.CompanyID = companyID
	p2 := newPayment(t, "80.00", "0.00")
	p2.CompanyID = companyID

	txs := []*ledger.Transaction{
		ledger.NewChargeTransaction(p1, now),
		ledger.NewChargeTransaction(p2, now),
		ledger.NewRefundTransaction(p2, now),
	}
	// 117.50 + 80.00 - 80.00
	assert.Equal(t, "117.50", ledger.SumTransactions(txs).StringFixed(2))
}

func TestSumTransactions_ClampsAtZero(t *testing.T) {
	p := newPayment(t, "30.00", "0.00")
	txs := []*ledger.Transaction{
		ledger.NewRefundTransaction(p, now),
	}
	assert.True(t, ledger.SumTransactions(txs).IsZero())
}

func TestSumTransactions_PayoutSubtracts(t *testing.T) {
	companyID := uuid.New()
	p := newPayment(t, "100.00", "0.00")
	p.CompanyID = companyID

	payout := &ledger.Transaction{
		ID:        uuid.New(),
		CompanyID: companyID,
		Type:      ledger.TransactionPayout,
		Amount:    d("40.00"),
		Fee:       d("0.00"),
		CreatedAt: now,
	}
	txs := []*ledger.Transaction{ledger.NewChargeTransaction(p, now), payout}
	assert.Equal(t, "60.00", ledger.SumTransactions(txs).StringFixed(2))
}
