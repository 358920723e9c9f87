package shops

import (
	"context"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires shop persistence. All reads and writes are tenant-scoped.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new shop row.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByID loads a shop in the caller's tenant.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		First(&shop, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// List returns the tenant's shops, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Shop, error) {
	var rows []models.Shop
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Update applies the provided column updates to a tenant shop.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a tenant shop by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ?", id).
		Delete(&models.Shop{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
