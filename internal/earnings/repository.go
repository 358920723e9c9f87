package earnings

import (
	"context"
	"errors"
	"time"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the aggregate queries behind earnings and dashboard views.
// Nothing here is incrementally maintained; every call recomputes from rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type sumRow struct {
	Total decimal.Decimal
}

// SumProfitByWorker totals profit across all of a worker's sales.
func (r *Repository) SumProfitByWorker(ctx context.Context, workerID uuid.UUID) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(profit), 0) AS total").
		Where("worker_id = ?", workerID).
		Scan(&row).Error
	return row.Total, err
}

// SumProfitByWorkerBetween totals profit for sales in [from, to).
func (r *Repository) SumProfitByWorkerBetween(ctx context.Context, workerID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(profit), 0) AS total").
		Where("worker_id = ? AND created_at >= ? AND created_at < ?", workerID, from, to).
		Scan(&row).Error
	return row.Total, err
}

// SumSalesByWorkerSince totals sale amounts recorded at or after from.
func (r *Repository) SumSalesByWorkerSince(ctx context.Context, workerID uuid.UUID, from time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("worker_id = ? AND created_at >= ?", workerID, from).
		Scan(&row).Error
	return row.Total, err
}

// SumPaymentsByWorker totals all salary payments made to a worker.
func (r *Repository) SumPaymentsByWorker(ctx context.Context, workerID uuid.UUID) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.SalaryPayment{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("worker_id = ?", workerID).
		Scan(&row).Error
	return row.Total, err
}

// LastPaymentByWorker returns the most recent salary payment, or nil.
func (r *Repository) LastPaymentByWorker(ctx context.Context, workerID uuid.UUID) (*models.SalaryPayment, error) {
	var payment models.SalaryPayment
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// SumSalesByOwnerSince totals the tenant's sale amounts at or after from.
func (r *Repository) SumSalesByOwnerSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("created_at >= ?", from).
		Scan(&row).Error
	return row.Total, err
}

// SumProfitByOwnerSince totals the tenant's profit at or after from.
func (r *Repository) SumProfitByOwnerSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Select("COALESCE(SUM(profit), 0) AS total").
		Where("created_at >= ?", from).
		Scan(&row).Error
	return row.Total, err
}

// CountProducts counts the tenant's products.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Count(&count).Error
	return count, err
}

// CountLowStockProducts counts tenant products at or below the threshold.
func (r *Repository) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("stock <= ?", threshold).
		Count(&count).Error
	return count, err
}

// CountWorkers counts the tenant's active workers.
func (r *Repository) CountWorkers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("role = ? AND is_active = ?", enums.UserRoleWorker, true).
		Count(&count).Error
	return count, err
}
