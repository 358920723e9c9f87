package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryPayment is an immutable payout record for a worker's month.
type SalaryPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WorkerID  uuid.UUID       `gorm:"column:worker_id;type:uuid;not null"`
	OwnerID   uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	PaidBy    uuid.UUID       `gorm:"column:paid_by;type:uuid;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Month     int             `gorm:"column:month;not null"`
	Year      int             `gorm:"column:year;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
