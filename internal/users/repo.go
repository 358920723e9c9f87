package users

import (
	"context"
	"time"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations. Worker lookups are
// tenant-scoped; email/id lookups used by login are not.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// FindWorker loads a worker in the caller's tenant.
func (r *Repository) FindWorker(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("role = ?", enums.UserRoleWorker).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListWorkers returns all workers in the caller's tenant.
func (r *Repository) ListWorkers(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("role = ?", enums.UserRoleWorker).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateWorker applies the provided column updates to a tenant worker.
func (r *Repository) UpdateWorker(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Scopes(tenancy.OwnerScope(ctx)).
		Where("id = ? AND role = ?", id, enums.UserRoleWorker).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAdmins returns every admin account. Developer tooling only.
func (r *Repository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", enums.UserRoleAdmin).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// SetActive flips the is_active flag for the given user id and role.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, role enums.UserRole, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", id, role).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
