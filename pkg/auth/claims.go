package auth

import (
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	OwnerID *uuid.UUID
	ShopID  *uuid.UUID
	Role    enums.UserRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID  uuid.UUID      `json:"user_id"`
	OwnerID *uuid.UUID     `json:"owner_id,omitempty"`
	ShopID  *uuid.UUID     `json:"shop_id,omitempty"`
	Role    enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TenantID resolves the owning admin for the token holder. Admins are their
// own tenant; workers carry their admin's id.
func (c *AccessTokenClaims) TenantID() uuid.UUID {
	if c.Role == enums.UserRoleAdmin {
		return c.UserID
	}
	if c.OwnerID != nil {
		return *c.OwnerID
	}
	return uuid.Nil
}
