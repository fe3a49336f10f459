package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/amirasaad/affiliates/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPaymentRepository_UpdateStatus_CAS(t *testing.T) {
	db, mock := newMockDB(t)
	repo := paymentRepository{db: db}
	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET (.+) WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.UpdateStatus(context.Background(), id,
		ledger.PaymentPending, ledger.PaymentCompleted, nil, at)
	require.NoError(t, err)
	assert.True(t, ok)

	// status already moved on: zero rows affected reads as false, not an error
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET (.+) WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err = repo.UpdateStatus(context.Background(), id,
		ledger.PaymentPending, ledger.PaymentCompleted, nil, at)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET (.+)`).
		WillReturnError(errors.New("update error"))
	mock.ExpectRollback()

	_, err = repo.UpdateStatus(context.Background(), id,
		ledger.PaymentPending, ledger.PaymentCompleted, nil, at)
	require.Error(t, err)
}

func TestPaymentRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := paymentRepository{db: db}
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1 (.+) LIMIT \$2`).
		WithArgs(id, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestRevenueRepository_Get_MissingRowIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := revenueRepository{db: db}
	companyID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "company_revenues" WHERE company_id = \$1 (.+) LIMIT \$2`).
		WithArgs(companyID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	rev, err := repo.Get(context.Background(), companyID)
	require.NoError(t, err)
	assert.Nil(t, rev)
}

func TestRevenueRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := revenueRepository{db: db}

	rev := ledger.NewCompanyRevenue(uuid.New(), time.Now().UTC())
	rev.TotalRevenue = decimal.RequireFromString("117.50")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "company_revenues" (.+) ON CONFLICT \("company_id"\) DO UPDATE SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Upsert(context.Background(), rev))
}

func TestProfileRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := profileRepository{db: db}
	userID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE user_id = \$1 (.+) LIMIT \$2`).
		WithArgs(userID, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
