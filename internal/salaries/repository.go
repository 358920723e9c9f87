package salaries

import (
	"context"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists salary payments. Rows are immutable once written.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new salary payment row.
func (r *Repository) Create(ctx context.Context, payment *models.SalaryPayment) (*models.SalaryPayment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// ListByWorker returns a worker's payment history, newest first.
func (r *Repository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]models.SalaryPayment, error) {
	var rows []models.SalaryPayment
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
