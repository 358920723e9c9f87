package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management for admins plus the worker catalog read.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, shopID *uuid.UUID) ([]ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WorkerCatalog(ctx context.Context) ([]CatalogItemDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name                string
	BuyingPrice         decimal.Decimal
	MinimumSellingPrice decimal.Decimal
	Stock               int
	ShopID              uuid.UUID
	CategoryID          *uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name                *string
	BuyingPrice         *decimal.Decimal
	MinimumSellingPrice *decimal.Decimal
	Stock               *int
	CategoryID          *uuid.UUID
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       *Repository
	shops      shopLoader
	categories categoryLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, shops shopLoader, categories categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{
		repo:       repo,
		shops:      shops,
		categories: categories,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	ownerID := tenancy.MustOwnerID(ctx)
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant required")
	}
	if input.BuyingPrice.IsNegative() || input.MinimumSellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	if _, err := s.shops.FindByID(ctx, input.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
	}

	product := &models.Product{
		ID:                  uuid.New(),
		Name:                strings.TrimSpace(input.Name),
		BuyingPrice:         input.BuyingPrice,
		MinimumSellingPrice: input.MinimumSellingPrice,
		Stock:               input.Stock,
		ShopID:              input.ShopID,
		CategoryID:          input.CategoryID,
		OwnerID:             ownerID,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, shopID *uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.BuyingPrice != nil {
		if input.BuyingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "buying price cannot be negative")
		}
		updates["buying_price"] = *input.BuyingPrice
	}
	if input.MinimumSellingPrice != nil {
		if input.MinimumSellingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum selling price cannot be negative")
		}
		updates["minimum_selling_price"] = *input.MinimumSellingPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock"] = *input.Stock
	}
	if input.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
		}
		updates["category_id"] = *input.CategoryID
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

// WorkerCatalog lists the products stocked in the worker's own shop.
func (s *service) WorkerCatalog(ctx context.Context) ([]CatalogItemDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok || principal.ShopID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "worker shop assignment required")
	}
	rows, err := s.repo.List(ctx, principal.ShopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog")
	}
	return CatalogFromModels(rows), nil
}
