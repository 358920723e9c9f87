package salaries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
)

func setupSalariesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	table := `
CREATE TABLE IF NOT EXISTS salary_payments (
  id TEXT PRIMARY KEY,
  worker_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  paid_by TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  month INTEGER NOT NULL,
  year INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(table).Error)
	return conn
}

type stubWorkerLoader struct {
	worker *models.User
	err    error
}

func (s stubWorkerLoader) FindWorker(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.worker, nil
}

func buildSalariesService(t *testing.T, conn *gorm.DB, workers workerLoader) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), workers, nil)
	require.NoError(t, err)
	return svc
}

func adminContext(ownerID, adminID uuid.UUID) context.Context {
	return tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  adminID,
		OwnerID: ownerID,
		Role:    enums.UserRoleAdmin,
	})
}

func TestRecordPayment(t *testing.T) {
	conn := setupSalariesTestDB(t)
	workerID := uuid.New()
	svc := buildSalariesService(t, conn, stubWorkerLoader{worker: &models.User{ID: workerID}})

	ownerID := uuid.New()
	adminID := uuid.New()
	ctx := adminContext(ownerID, adminID)

	payment, err := svc.RecordPayment(ctx, RecordPaymentInput{
		WorkerID: workerID,
		Amount:   decimal.RequireFromString("15000"),
		Month:    8,
		Year:     2026,
	})
	require.NoError(t, err)

	assert.Equal(t, workerID, payment.WorkerID)
	assert.Equal(t, adminID, payment.PaidBy)
	assert.Equal(t, 8, payment.Month)
	assert.Equal(t, 2026, payment.Year)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("15000")))

	var stored models.SalaryPayment
	require.NoError(t, conn.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, ownerID, stored.OwnerID)
}

func TestRecordPaymentValidation(t *testing.T) {
	conn := setupSalariesTestDB(t)
	svc := buildSalariesService(t, conn, stubWorkerLoader{worker: &models.User{ID: uuid.New()}})
	ctx := adminContext(uuid.New(), uuid.New())

	cases := []struct {
		name  string
		input RecordPaymentInput
	}{
		{"zero amount", RecordPaymentInput{WorkerID: uuid.New(), Amount: decimal.Zero, Month: 8, Year: 2026}},
		{"negative amount", RecordPaymentInput{WorkerID: uuid.New(), Amount: decimal.RequireFromString("-50"), Month: 8, Year: 2026}},
		{"month too low", RecordPaymentInput{WorkerID: uuid.New(), Amount: decimal.RequireFromString("100"), Month: 0, Year: 2026}},
		{"month too high", RecordPaymentInput{WorkerID: uuid.New(), Amount: decimal.RequireFromString("100"), Month: 13, Year: 2026}},
		{"year out of range", RecordPaymentInput{WorkerID: uuid.New(), Amount: decimal.RequireFromString("100"), Month: 8, Year: 1999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestRecordPaymentUnknownWorker(t *testing.T) {
	conn := setupSalariesTestDB(t)
	svc := buildSalariesService(t, conn, stubWorkerLoader{err: gorm.ErrRecordNotFound})
	ctx := adminContext(uuid.New(), uuid.New())

	_, err := svc.RecordPayment(ctx, RecordPaymentInput{
		WorkerID: uuid.New(),
		Amount:   decimal.RequireFromString("100"),
		Month:    8,
		Year:     2026,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListMineIsScopedToCaller(t *testing.T) {
	conn := setupSalariesTestDB(t)
	workerID := uuid.New()
	otherID := uuid.New()
	svc := buildSalariesService(t, conn, stubWorkerLoader{worker: &models.User{ID: workerID}})

	ownerID := uuid.New()
	adminCtx := adminContext(ownerID, uuid.New())

	for _, target := range []uuid.UUID{workerID, otherID} {
		_, err := svc.RecordPayment(adminCtx, RecordPaymentInput{
			WorkerID: target,
			Amount:   decimal.RequireFromString("100"),
			Month:    8,
			Year:     2026,
		})
		require.NoError(t, err)
	}

	workerCtx := tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  workerID,
		OwnerID: ownerID,
		Role:    enums.UserRoleWorker,
	})
	mine, err := svc.ListMine(workerCtx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, workerID, mine[0].WorkerID)

	// a foreign tenant sees nothing even for the same worker id
	foreignCtx := tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  workerID,
		OwnerID: uuid.New(),
		Role:    enums.UserRoleWorker,
	})
	foreign, err := svc.ListMine(foreignCtx)
	require.NoError(t, err)
	assert.Empty(t, foreign)
}

func TestListForWorker(t *testing.T) {
	conn := setupSalariesTestDB(t)
	workerID := uuid.New()
	svc := buildSalariesService(t, conn, stubWorkerLoader{worker: &models.User{ID: workerID}})

	ownerID := uuid.New()
	ctx := adminContext(ownerID, uuid.New())

	for month := 6; month <= 8; month++ {
		_, err := svc.RecordPayment(ctx, RecordPaymentInput{
			WorkerID: workerID,
			Amount:   decimal.RequireFromString("100"),
			Month:    month,
			Year:     2026,
		})
		require.NoError(t, err)
	}

	rows, err := svc.ListForWorker(ctx, workerID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
