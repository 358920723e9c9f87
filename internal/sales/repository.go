package sales

import (
	"context"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires sale persistence. Sales are immutable once written.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateBatch inserts the cart's sale rows in one statement.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.Sale) ([]models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListFilters restricts a sale listing.
type ListFilters struct {
	WorkerID *uuid.UUID
	ShopID   *uuid.UUID
}

// List returns a cursor page of the tenant's sales, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Sale, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(page.Limit)

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx))
	if filters.WorkerID != nil {
		qb = qb.Where("worker_id = ?", *filters.WorkerID)
	}
	if filters.ShopID != nil {
		qb = qb.Where("shop_id = ?", *filters.ShopID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
