package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a stocked item in a shop. Stock is decremented with a
// conditional update so it can never go below zero.
type Product struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string          `gorm:"column:name;not null"`
	BuyingPrice         decimal.Decimal `gorm:"column:buying_price;type:numeric(12,2);not null;default:0"`
	MinimumSellingPrice decimal.Decimal `gorm:"column:minimum_selling_price;type:numeric(12,2);not null;default:0"`
	Stock               int             `gorm:"column:stock;not null;default:0"`
	ShopID              uuid.UUID       `gorm:"column:shop_id;type:uuid;not null"`
	CategoryID          *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	OwnerID             uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
