package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/config"
	pkgdb "github.com/briankemboi/dukapos-backend/pkg/db"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes account management for admins (workers) and developers (admins).
type Service interface {
	CreateWorker(ctx context.Context, input CreateWorkerInput) (*UserDTO, error)
	UpdateWorker(ctx context.Context, workerID uuid.UUID, input UpdateWorkerInput) (*UserDTO, error)
	DeactivateWorker(ctx context.Context, workerID uuid.UUID) error
	ListWorkers(ctx context.Context) ([]UserDTO, error)
	GetWorker(ctx context.Context, workerID uuid.UUID) (*UserDTO, error)

	CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserDTO, error)
	ListAdmins(ctx context.Context) ([]UserDTO, error)
	DeactivateAdmin(ctx context.Context, adminID uuid.UUID) error

	GetMe(ctx context.Context) (*UserDTO, error)
}

// CreateWorkerInput holds the validated payload to create a worker account.
type CreateWorkerInput struct {
	Email    string
	Name     string
	Phone    *string
	Password string
	ShopID   uuid.UUID
}

// UpdateWorkerInput holds optional mutation values for a worker.
type UpdateWorkerInput struct {
	Name     *string
	Phone    *string
	ShopID   *uuid.UUID
	Password *string
}

// CreateAdminInput holds the validated payload to create an admin account.
type CreateAdminInput struct {
	Email    string
	Name     string
	Phone    *string
	Password string
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

type service struct {
	repo        *Repository
	shops       shopLoader
	passwordCfg config.PasswordConfig
}

// NewService constructs the account management service.
func NewService(repo *Repository, shops shopLoader, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	return &service{
		repo:        repo,
		shops:       shops,
		passwordCfg: passwordCfg,
	}, nil
}

func (s *service) CreateWorker(ctx context.Context, input CreateWorkerInput) (*UserDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok || principal.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can create workers")
	}

	if _, err := s.shops.FindByID(ctx, input.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	ownerID := principal.OwnerID
	shopID := input.ShopID
	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Role:         enums.UserRoleWorker,
		ShopID:       &shopID,
		OwnerID:      &ownerID,
	})
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create worker")
	}
	return FromModel(user), nil
}

func (s *service) UpdateWorker(ctx context.Context, workerID uuid.UUID, input UpdateWorkerInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.ShopID != nil {
		if _, err := s.shops.FindByID(ctx, *input.ShopID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
		}
		updates["shop_id"] = *input.ShopID
	}
	if input.Password != nil {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateWorker(ctx, workerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update worker")
	}

	worker, err := s.repo.FindWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload worker")
	}
	return FromModel(worker), nil
}

func (s *service) DeactivateWorker(ctx context.Context, workerID uuid.UUID) error {
	if _, err := s.repo.FindWorker(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup worker")
	}
	if err := s.repo.SetActive(ctx, workerID, enums.UserRoleWorker, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate worker")
	}
	return nil
}

func (s *service) ListWorkers(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list workers")
	}
	return FromModels(rows), nil
}

func (s *service) GetWorker(ctx context.Context, workerID uuid.UUID) (*UserDTO, error) {
	worker, err := s.repo.FindWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup worker")
	}
	return FromModel(worker), nil
}

func (s *service) CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok || principal.Role != enums.UserRoleDeveloper {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only developers can create admins")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        normalizeEmail(input.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}
	return FromModel(user), nil
}

func (s *service) ListAdmins(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.ListAdmins(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admins")
	}
	return FromModels(rows), nil
}

func (s *service) DeactivateAdmin(ctx context.Context, adminID uuid.UUID) error {
	if err := s.repo.SetActive(ctx, adminID, enums.UserRoleAdmin, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate admin")
	}
	return nil
}

func (s *service) GetMe(ctx context.Context) (*UserDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.repo.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return FromModel(user), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
