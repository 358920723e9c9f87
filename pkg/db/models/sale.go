package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

// Sale is an immutable line item recorded at the point of sale.
// TotalAmount and Profit are computed at write time and never recalculated.
type Sale struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	WorkerID      uuid.UUID           `gorm:"column:worker_id;type:uuid;not null"`
	ShopID        uuid.UUID           `gorm:"column:shop_id;type:uuid;not null"`
	OwnerID       uuid.UUID           `gorm:"column:owner_id;type:uuid;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	SellingPrice  decimal.Decimal     `gorm:"column:selling_price;type:numeric(12,2);not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Profit        decimal.Decimal     `gorm:"column:profit;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
