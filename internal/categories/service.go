package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	pkgdb "github.com/briankemboi/dukapos-backend/pkg/db"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes category management for admins.
type Service interface {
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	List(ctx context.Context) ([]CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

type service struct {
	repo *Repository
}

// NewService constructs a category service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	ownerID := tenancy.MustOwnerID(ctx)
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "tenant required")
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerID:     ownerID,
	}
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return FromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload category")
	}
	return FromModel(category), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}
