package earnings

import (
	"context"
	"testing"
	"time"

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

func setupEarningsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  worker_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  selling_price NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  profit NUMERIC NOT NULL,
  payment_method TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS salary_payments (
  id TEXT PRIMARY KEY,
  worker_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  paid_by TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  month INTEGER NOT NULL,
  year INTEGER NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  buying_price NUMERIC NOT NULL DEFAULT 0,
  minimum_selling_price NUMERIC NOT NULL DEFAULT 0,
  stock INTEGER NOT NULL DEFAULT 0,
  shop_id TEXT NOT NULL,
  category_id TEXT,
  owner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL,
  shop_id TEXT,
  owner_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
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

func buildEarningsService(t *testing.T, conn *gorm.DB, at time.Time) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), stubWorkerLoader{worker: &models.User{ID: uuid.New()}})
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return at }
	return svc
}

func ownerContext(ownerID, userID uuid.UUID) context.Context {
	return tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  userID,
		OwnerID: ownerID,
		Role:    enums.UserRoleAdmin,
	})
}

func mustInsertSale(t *testing.T, conn *gorm.DB, ownerID, workerID uuid.UUID, total, profit string, at time.Time) {
	t.Helper()
	sale := &models.Sale{
		ID:            uuid.New(),
		ProductID:     uuid.New(),
		WorkerID:      workerID,
		ShopID:        uuid.New(),
		OwnerID:       ownerID,
		Quantity:      1,
		SellingPrice:  decimal.RequireFromString(total),
		TotalAmount:   decimal.RequireFromString(total),
		Profit:        decimal.RequireFromString(profit),
		PaymentMethod: enums.PaymentMethodCash,
		CreatedAt:     at,
	}
	require.NoError(t, conn.Create(sale).Error)
}

func mustInsertPayment(t *testing.T, conn *gorm.DB, ownerID, workerID uuid.UUID, amount string, at time.Time) {
	t.Helper()
	payment := &models.SalaryPayment{
		ID:        uuid.New(),
		WorkerID:  workerID,
		OwnerID:   ownerID,
		PaidBy:    ownerID,
		Amount:    decimal.RequireFromString(amount),
		Month:     int(at.Month()),
		Year:      at.Year(),
		CreatedAt: at,
	}
	require.NoError(t, conn.Create(payment).Error)
}

func TestSummaryPendingPaymentIsProfitMinusPaid(t *testing.T) {
	conn := setupEarningsTestDB(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc := buildEarningsService(t, conn, now)

	ownerID := uuid.New()
	workerID := uuid.New()
	ctx := ownerContext(ownerID, ownerID)

	mustInsertSale(t, conn, ownerID, workerID, "500", "200", now.AddDate(0, -2, 0))
	mustInsertSale(t, conn, ownerID, workerID, "700", "300", now.AddDate(0, 0, -3))
	mustInsertSale(t, conn, ownerID, workerID, "100", "50", now.Add(-2*time.Hour))
	mustInsertPayment(t, conn, ownerID, workerID, "100", now.AddDate(0, -1, 0))

	summary, err := svc.SummaryForWorker(ctx, workerID)
	require.NoError(t, err)

	assert.True(t, summary.TotalProfitAccrued.Equal(decimal.RequireFromString("550")), "profit %s", summary.TotalProfitAccrued)
	assert.True(t, summary.TotalEarningsPaid.Equal(decimal.RequireFromString("100")))
	assert.True(t, summary.PendingPayment.Equal(decimal.RequireFromString("450")), "pending %s", summary.PendingPayment)
	require.NotNil(t, summary.LastPaymentAmount)
	assert.True(t, summary.LastPaymentAmount.Equal(decimal.RequireFromString("100")))
}

func TestSummaryPendingPaymentMayGoNegative(t *testing.T) {
	conn := setupEarningsTestDB(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc := buildEarningsService(t, conn, now)

	ownerID := uuid.New()
	workerID := uuid.New()
	ctx := ownerContext(ownerID, ownerID)

	mustInsertSale(t, conn, ownerID, workerID, "100", "50", now.Add(-time.Hour))
	mustInsertPayment(t, conn, ownerID, workerID, "200", now.Add(-time.Hour))

	summary, err := svc.SummaryForWorker(ctx, workerID)
	require.NoError(t, err)
	assert.True(t, summary.PendingPayment.Equal(decimal.RequireFromString("-150")), "pending %s", summary.PendingPayment)
}

func TestSummarySalesWindows(t *testing.T) {
	conn := setupEarningsTestDB(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc := buildEarningsService(t, conn, now)

	ownerID := uuid.New()
	workerID := uuid.New()
	ctx := ownerContext(ownerID, ownerID)

	// today, inside the week, inside 30 days, outside all windows
	mustInsertSale(t, conn, ownerID, workerID, "100", "10", now.Add(-time.Hour))
	mustInsertSale(t, conn, ownerID, workerID, "200", "20", now.AddDate(0, 0, -3))
	mustInsertSale(t, conn, ownerID, workerID, "400", "40", now.AddDate(0, 0, -20))
	mustInsertSale(t, conn, ownerID, workerID, "800", "80", now.AddDate(0, 0, -40))

	summary, err := svc.SummaryForWorker(ctx, workerID)
	require.NoError(t, err)

	assert.True(t, summary.SalesToday.Equal(decimal.RequireFromString("100")), "today %s", summary.SalesToday)
	assert.True(t, summary.SalesWeek.Equal(decimal.RequireFromString("300")), "week %s", summary.SalesWeek)
	assert.True(t, summary.SalesMonth.Equal(decimal.RequireFromString("700")), "month %s", summary.SalesMonth)
}

func TestSummaryMonthlyProfitIsCalendarAligned(t *testing.T) {
	conn := setupEarningsTestDB(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc := buildEarningsService(t, conn, now)

	ownerID := uuid.New()
	workerID := uuid.New()
	ctx := ownerContext(ownerID, ownerID)

	// August sale counts, late-July sale does not even though it is within 30 days
	mustInsertSale(t, conn, ownerID, workerID, "100", "60", time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC))
	mustInsertSale(t, conn, ownerID, workerID, "100", "40", time.Date(2026, 7, 28, 9, 0, 0, 0, time.UTC))

	summary, err := svc.SummaryForWorker(ctx, workerID)
	require.NoError(t, err)
	assert.True(t, summary.MonthlyProfit.Equal(decimal.RequireFromString("60")), "monthly %s", summary.MonthlyProfit)
}

func TestSummaryForMissingWorker(t *testing.T) {
	conn := setupEarningsTestDB(t)
	svc, err := NewService(NewRepository(conn), stubWorkerLoader{err: gorm.ErrRecordNotFound})
	require.NoError(t, err)

	_, err = svc.SummaryForWorker(ownerContext(uuid.New(), uuid.New()), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDashboardCountsInventoryAndWorkers(t *testing.T) {
	conn := setupEarningsTestDB(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	svc := buildEarningsService(t, conn, now)

	ownerID := uuid.New()
	ctx := ownerContext(ownerID, ownerID)

	for i, stock := range []int{2, 5, 50} {
		product := &models.Product{
			ID:                  uuid.New(),
			Name:                "p",
			BuyingPrice:         decimal.RequireFromString("1"),
			MinimumSellingPrice: decimal.RequireFromString("2"),
			Stock:               stock,
			ShopID:              uuid.New(),
			OwnerID:             ownerID,
		}
		require.NoError(t, conn.Create(product).Error, "product %d", i)
	}

	active := &models.User{ID: uuid.New(), Email: "w1@example.com", PasswordHash: "h", Name: "W1", Role: enums.UserRoleWorker, OwnerID: &ownerID, IsActive: true}
	inactive := &models.User{ID: uuid.New(), Email: "w2@example.com", PasswordHash: "h", Name: "W2", Role: enums.UserRoleWorker, OwnerID: &ownerID, IsActive: false}
	require.NoError(t, conn.Create(active).Error)
	require.NoError(t, conn.Create(inactive).Error)

	mustInsertSale(t, conn, ownerID, active.ID, "300", "100", now.Add(-time.Hour))

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), dashboard.ProductCount)
	assert.Equal(t, int64(2), dashboard.LowStockCount, "stock at or below 5 counts as low")
	assert.Equal(t, int64(1), dashboard.WorkerCount, "only active workers count")
	assert.True(t, dashboard.SalesToday.Equal(decimal.RequireFromString("300")))
	assert.True(t, dashboard.ProfitToday.Equal(decimal.RequireFromString("100")))
}
