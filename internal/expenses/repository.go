package expenses

import (
	"context"
	"time"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists expense requests and directly recorded expenses.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateRequest inserts a new expense request in the pending state.
func (r *Repository) CreateRequest(ctx context.Context, request *models.ExpenseRequest) (*models.ExpenseRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindRequestByID loads an expense request in the caller's tenant.
func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.ExpenseRequest, error) {
	var request models.ExpenseRequest
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ListRequests returns the tenant's requests, optionally filtered.
func (r *Repository) ListRequests(ctx context.Context, workerID *uuid.UUID, status *enums.ExpenseStatus) ([]models.ExpenseRequest, error) {
	qb := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Order("created_at DESC")
	if workerID != nil {
		qb = qb.Where("worker_id = ?", *workerID)
	}
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}
	var rows []models.ExpenseRequest
	err := qb.Find(&rows).Error
	return rows, err
}

// DecideRequest moves a pending request to its terminal status. The update is
// guarded on status so a second decision affects zero rows.
func (r *Repository) DecideRequest(ctx context.Context, id uuid.UUID, status enums.ExpenseStatus, decidedBy uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ExpenseRequest{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ? AND status = ?", id, enums.ExpenseStatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateExpense inserts a directly recorded expense.
func (r *Repository) CreateExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns the tenant's recorded expenses, newest first.
func (r *Repository) ListExpenses(ctx context.Context, shopID *uuid.UUID) ([]models.Expense, error) {
	qb := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Order("created_at DESC")
	if shopID != nil {
		qb = qb.Where("shop_id = ?", *shopID)
	}
	var rows []models.Expense
	err := qb.Find(&rows).Error
	return rows, err
}

// DeleteExpense removes a tenant expense by ID.
func (r *Repository) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ?", id).
		Delete(&models.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
