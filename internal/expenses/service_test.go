package expenses

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

func setupExpensesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS expense_requests (
  id TEXT PRIMARY KEY,
  worker_id TEXT NOT NULL,
  shop_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  decided_by TEXT,
  description TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS expenses (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  owner_id TEXT NOT NULL,
  paid_by TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT,
  amount NUMERIC NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type stubShopLoader struct {
	shop *models.Shop
	err  error
}

func (s stubShopLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.shop, nil
}

func buildExpensesService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), stubShopLoader{shop: &models.Shop{ID: uuid.New()}}, nil)
	require.NoError(t, err)
	return svc
}

func workerContext(ownerID, workerID, shopID uuid.UUID) context.Context {
	return tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  workerID,
		OwnerID: ownerID,
		ShopID:  &shopID,
		Role:    enums.UserRoleWorker,
	})
}

func adminContext(ownerID, adminID uuid.UUID) context.Context {
	return tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  adminID,
		OwnerID: ownerID,
		Role:    enums.UserRoleAdmin,
	})
}

func TestCreateRequestStartsPending(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	workerID := uuid.New()
	shopID := uuid.New()
	ctx := workerContext(ownerID, workerID, shopID)

	request, err := svc.CreateRequest(ctx, CreateRequestInput{
		Description: "  restock airtime float  ",
		Amount:      decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	assert.Equal(t, enums.ExpenseStatusPending, request.Status)
	assert.Equal(t, workerID, request.WorkerID)
	assert.Equal(t, shopID, request.ShopID)
	assert.Equal(t, "restock airtime float", request.Description)
	assert.Nil(t, request.DecidedBy)
}

func TestCreateRequestValidation(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ctx := workerContext(uuid.New(), uuid.New(), uuid.New())

	_, err := svc.CreateRequest(ctx, CreateRequestInput{Description: "   ", Amount: decimal.RequireFromString("10")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateRequest(ctx, CreateRequestInput{Description: "chai", Amount: decimal.Zero})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	noShop := tenancy.WithPrincipal(context.Background(), tenancy.Principal{
		UserID:  uuid.New(),
		OwnerID: uuid.New(),
		Role:    enums.UserRoleWorker,
	})
	_, err = svc.CreateRequest(noShop, CreateRequestInput{Description: "chai", Amount: decimal.RequireFromString("10")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecideRequestIsTerminal(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	adminID := uuid.New()
	workerCtx := workerContext(ownerID, uuid.New(), uuid.New())
	adminCtx := adminContext(ownerID, adminID)

	request, err := svc.CreateRequest(workerCtx, CreateRequestInput{
		Description: "transport",
		Amount:      decimal.RequireFromString("200"),
	})
	require.NoError(t, err)

	decided, err := svc.DecideRequest(adminCtx, request.ID, true)
	require.NoError(t, err)
	assert.Equal(t, enums.ExpenseStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, adminID, *decided.DecidedBy)

	// a second decision, even a matching one, must conflict
	_, err = svc.DecideRequest(adminCtx, request.ID, false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, enums.ExpenseStatusApproved, details["status"])
}

func TestDecideRequestRejects(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	workerCtx := workerContext(ownerID, uuid.New(), uuid.New())
	adminCtx := adminContext(ownerID, uuid.New())

	request, err := svc.CreateRequest(workerCtx, CreateRequestInput{
		Description: "lunch",
		Amount:      decimal.RequireFromString("150"),
	})
	require.NoError(t, err)

	decided, err := svc.DecideRequest(adminCtx, request.ID, false)
	require.NoError(t, err)
	assert.Equal(t, enums.ExpenseStatusRejected, decided.Status)
}

func TestDecideRequestMissingOrForeignTenant(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	workerCtx := workerContext(ownerID, uuid.New(), uuid.New())

	request, err := svc.CreateRequest(workerCtx, CreateRequestInput{
		Description: "stock",
		Amount:      decimal.RequireFromString("90"),
	})
	require.NoError(t, err)

	_, err = svc.DecideRequest(adminContext(ownerID, uuid.New()), uuid.New(), true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// another tenant's admin cannot see the request at all
	_, err = svc.DecideRequest(adminContext(uuid.New(), uuid.New()), request.ID, true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListMyRequestsIsWorkerScoped(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	workerID := uuid.New()
	shopID := uuid.New()
	ctx := workerContext(ownerID, workerID, shopID)

	_, err := svc.CreateRequest(ctx, CreateRequestInput{Description: "mine", Amount: decimal.RequireFromString("10")})
	require.NoError(t, err)
	_, err = svc.CreateRequest(workerContext(ownerID, uuid.New(), shopID), CreateRequestInput{Description: "theirs", Amount: decimal.RequireFromString("20")})
	require.NoError(t, err)

	mine, err := svc.ListMyRequests(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Description)
}

func TestListRequestsFiltersByStatus(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	adminCtx := adminContext(ownerID, uuid.New())
	workerCtx := workerContext(ownerID, uuid.New(), uuid.New())

	first, err := svc.CreateRequest(workerCtx, CreateRequestInput{Description: "a", Amount: decimal.RequireFromString("10")})
	require.NoError(t, err)
	_, err = svc.CreateRequest(workerCtx, CreateRequestInput{Description: "b", Amount: decimal.RequireFromString("20")})
	require.NoError(t, err)

	_, err = svc.DecideRequest(adminCtx, first.ID, true)
	require.NoError(t, err)

	pending := enums.ExpenseStatusPending
	rows, err := svc.ListRequests(adminCtx, &pending)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].Description)

	all, err := svc.ListRequests(adminCtx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordExpenseValidatesShop(t *testing.T) {
	conn := setupExpensesTestDB(t)

	svc, err := NewService(NewRepository(conn), stubShopLoader{err: gorm.ErrRecordNotFound}, nil)
	require.NoError(t, err)

	ctx := adminContext(uuid.New(), uuid.New())
	_, err = svc.RecordExpense(ctx, RecordExpenseInput{
		ShopID:   uuid.New(),
		Category: "rent",
		Amount:   decimal.RequireFromString("5000"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRecordAndDeleteExpense(t *testing.T) {
	conn := setupExpensesTestDB(t)
	svc := buildExpensesService(t, conn)

	ownerID := uuid.New()
	adminID := uuid.New()
	ctx := adminContext(ownerID, adminID)

	note := "monthly stall rent"
	expense, err := svc.RecordExpense(ctx, RecordExpenseInput{
		ShopID:      uuid.New(),
		Category:    " rent ",
		Description: &note,
		Amount:      decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "rent", expense.Category)
	assert.Equal(t, adminID, expense.PaidBy)

	rows, err := svc.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// foreign tenants cannot delete it
	err = svc.DeleteExpense(adminContext(uuid.New(), uuid.New()), expense.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, svc.DeleteExpense(ctx, expense.ID))

	rows, err = svc.ListExpenses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
