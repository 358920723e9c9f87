package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

// ExpenseRequest is a worker-filed spend request awaiting an admin decision.
// Approved and rejected are terminal.
type ExpenseRequest struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WorkerID    uuid.UUID           `gorm:"column:worker_id;type:uuid;not null"`
	ShopID      uuid.UUID           `gorm:"column:shop_id;type:uuid;not null"`
	OwnerID     uuid.UUID           `gorm:"column:owner_id;type:uuid;not null"`
	DecidedBy   *uuid.UUID          `gorm:"column:decided_by;type:uuid"`
	Description string              `gorm:"column:description;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status      enums.ExpenseStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
