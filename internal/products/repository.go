package products

import (
	"context"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires catalog persistence, scoped to the caller's tenant.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product in the caller's tenant.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns the tenant's products, optionally restricted to one shop.
func (r *Repository) List(ctx context.Context, shopID *uuid.UUID) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Order("created_at DESC")
	if shopID != nil {
		qb = qb.Where("shop_id = ?", *shopID)
	}
	var rows []models.Product
	err := qb.Find(&rows).Error
	return rows, err
}

// Update applies the provided column updates to a tenant product.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
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

// Delete removes a tenant product by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ?", id).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock conditionally takes quantity units off the shelf. Zero rows
// affected means the product is missing or short on stock; callers treat that
// as a conflict and abort the surrounding transaction.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
