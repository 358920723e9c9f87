package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/db/models"
)

// ProductDTO is the transport shape for a catalog item.
type ProductDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	BuyingPrice         decimal.Decimal `json:"buying_price"`
	MinimumSellingPrice decimal.Decimal `json:"minimum_selling_price"`
	Stock               int             `json:"stock"`
	ShopID              uuid.UUID       `json:"shop_id"`
	CategoryID          *uuid.UUID      `json:"category_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// CatalogItemDTO is the worker-facing shape; buying price stays hidden.
type CatalogItemDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	MinimumSellingPrice decimal.Decimal `json:"minimum_selling_price"`
	Stock               int             `json:"stock"`
	CategoryID          *uuid.UUID      `json:"category_id,omitempty"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		BuyingPrice:         p.BuyingPrice,
		MinimumSellingPrice: p.MinimumSellingPrice,
		Stock:               p.Stock,
		ShopID:              p.ShopID,
		CategoryID:          p.CategoryID,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func CatalogFromModels(rows []models.Product) []CatalogItemDTO {
	out := make([]CatalogItemDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, CatalogItemDTO{
			ID:                  p.ID,
			Name:                p.Name,
			MinimumSellingPrice: p.MinimumSellingPrice,
			Stock:               p.Stock,
			CategoryID:          p.CategoryID,
		})
	}
	return out
}
