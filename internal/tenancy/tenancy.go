package tenancy

import (
	"context"

	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal is the authenticated actor resolved from the access token.
// OwnerID is the tenant: admins are their own owner, workers carry their
// admin's id. Developers have no tenant.
type Principal struct {
	UserID  uuid.UUID
	OwnerID uuid.UUID
	ShopID  *uuid.UUID
	Role    enums.UserRole
}

type ctxKey struct{}

// WithPrincipal stores the principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the principal placed by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// OwnerScope returns a GORM scope restricting rows to the caller's tenant.
// Queries fail closed when no tenant is present.
func OwnerScope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p, ok := FromContext(ctx)
		if !ok || p.OwnerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("owner_id = ?", p.OwnerID)
	}
}

// MustOwnerID returns the tenant id, or uuid.Nil when absent.
func MustOwnerID(ctx context.Context) uuid.UUID {
	p, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil
	}
	return p.OwnerID
}
