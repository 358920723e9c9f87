package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a directly recorded shop expense (no approval flow).
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID      uuid.UUID       `gorm:"column:shop_id;type:uuid;not null"`
	OwnerID     uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	PaidBy      uuid.UUID       `gorm:"column:paid_by;type:uuid;not null"`
	Category    string          `gorm:"column:category;not null"`
	Description *string         `gorm:"column:description"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
