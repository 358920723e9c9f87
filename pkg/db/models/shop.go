package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop represents a physical duka owned by an admin.
type Shop struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Location  *string   `gorm:"column:location"`
	Phone     *string   `gorm:"column:phone"`
	OwnerID   uuid.UUID `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
