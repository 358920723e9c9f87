package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

// User represents the canonical identity entity. Admins are their own tenant;
// workers point at their admin via OwnerID and at their duka via ShopID.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	ShopID       *uuid.UUID     `gorm:"column:shop_id;type:uuid"`
	OwnerID      *uuid.UUID     `gorm:"column:owner_id;type:uuid"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
