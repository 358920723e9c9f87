package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes shop management for admins.
type Service interface {
	Create(ctx context.Context, input CreateShopInput) (*ShopDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	List(ctx context.Context) ([]ShopDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateShopInput holds the validated payload to create a shop.
type CreateShopInput struct {
	Name     string
	Location *string
	Phone    *string
}

// UpdateShopInput holds optional mutation values for a shop.
type UpdateShopInput struct {
	Name     *string
	Location *string
	Phone    *string
}

type service struct {
	repo *Repository
}

// NewService constructs a shop service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateShopInput) (*ShopDTO, error) {
	ownerID := tenancy.MustOwnerID(ctx)
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant required")
	}

	shop := &models.Shop{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Location: input.Location,
		Phone:    input.Phone,
		OwnerID:  ownerID,
	}
	created, err := s.repo.Create(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shop")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
	}
	return FromModel(shop), nil
}

func (s *service) List(ctx context.Context) ([]ShopDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shops")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shop")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shop")
	}
	return nil
}
