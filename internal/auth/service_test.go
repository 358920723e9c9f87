package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/briankemboi/dukapos-backend/pkg/auth"
	"github.com/briankemboi/dukapos-backend/pkg/auth/session"
	"github.com/briankemboi/dukapos-backend/pkg/config"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "dukapos-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

type stubUserRepo struct {
	user        *models.User
	findErr     error
	gotEmail    string
	lastLoginID uuid.UUID
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.gotEmail = email
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginID = id
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotateErr    error
	newAccessID  string
	newRefresh   string
	revokedID    string
	rotatedFrom  string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newAccessID, s.newRefresh, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildAuthService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginAdminIsOwnTenant(t *testing.T) {
	adminID := uuid.New()
	repo := &stubUserRepo{user: &models.User{
		ID:           adminID,
		Email:        "admin@duka.co.ke",
		PasswordHash: mustHash(t, "correct horse"),
		Name:         "Admin",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}}
	sessions := &stubSessionManager{refreshToken: "refresh-1"}
	svc := buildAuthService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Admin@Duka.co.ke ", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if repo.gotEmail != "admin@duka.co.ke" {
		t.Fatalf("email not normalized, lookup used %q", repo.gotEmail)
	}
	if resp.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}
	if repo.lastLoginID != adminID {
		t.Fatalf("last login not recorded for %s", adminID)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != adminID {
		t.Fatalf("claims user id = %s, want %s", claims.UserID, adminID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("claims role = %s", claims.Role)
	}
	if claims.TenantID() != adminID {
		t.Fatalf("admin tenant = %s, want self %s", claims.TenantID(), adminID)
	}
	if claims.ID == "" {
		t.Fatal("claims jti is empty")
	}
}

func TestLoginWorkerCarriesOwnerAndShop(t *testing.T) {
	ownerID := uuid.New()
	shopID := uuid.New()
	workerID := uuid.New()
	repo := &stubUserRepo{user: &models.User{
		ID:           workerID,
		Email:        "worker@duka.co.ke",
		PasswordHash: mustHash(t, "pass1234"),
		Name:         "Worker",
		Role:         enums.UserRoleWorker,
		OwnerID:      &ownerID,
		ShopID:       &shopID,
		IsActive:     true,
	}}
	svc := buildAuthService(t, repo, &stubSessionManager{refreshToken: "refresh-2"})

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "worker@duka.co.ke", Password: "pass1234"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.TenantID() != ownerID {
		t.Fatalf("worker tenant = %s, want owner %s", claims.TenantID(), ownerID)
	}
	if claims.ShopID == nil || *claims.ShopID != shopID {
		t.Fatalf("claims shop id = %v, want %s", claims.ShopID, shopID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash := mustHash(t, "right password")
	cases := []struct {
		name string
		repo *stubUserRepo
		req  LoginRequest
	}{
		{
			name: "wrong password",
			repo: &stubUserRepo{user: &models.User{ID: uuid.New(), PasswordHash: hash, Role: enums.UserRoleAdmin, IsActive: true}},
			req:  LoginRequest{Email: "a@b.com", Password: "wrong password"},
		},
		{
			name: "unknown email",
			repo: &stubUserRepo{findErr: gorm.ErrRecordNotFound},
			req:  LoginRequest{Email: "nobody@b.com", Password: "whatever"},
		},
		{
			name: "inactive user",
			repo: &stubUserRepo{user: &models.User{ID: uuid.New(), PasswordHash: hash, Role: enums.UserRoleAdmin, IsActive: false}},
			req:  LoginRequest{Email: "a@b.com", Password: "right password"},
		},
		{
			name: "blank email",
			repo: &stubUserRepo{},
			req:  LoginRequest{Email: "   ", Password: "right password"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := buildAuthService(t, tc.repo, &stubSessionManager{})
			_, err := svc.Login(context.Background(), tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("message %q leaks failure detail", typed.Message())
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	workerID := uuid.New()
	ownerID := uuid.New()
	oldToken, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:  workerID,
		OwnerID: &ownerID,
		Role:    enums.UserRoleWorker,
		JTI:     "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	sessions := &stubSessionManager{newAccessID: "new-access-id", newRefresh: "new-refresh"}
	svc := buildAuthService(t, &stubUserRepo{}, sessions)

	resp, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: oldToken, RefreshToken: "old-refresh"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if sessions.rotatedFrom != "old-access-id" {
		t.Fatalf("rotated from %q, want old jti", sessions.rotatedFrom)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected refresh token %q", resp.RefreshToken)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse new token: %v", err)
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("new jti = %q", claims.ID)
	}
	if claims.UserID != workerID {
		t.Fatalf("new token user = %s, want %s", claims.UserID, workerID)
	}
	if claims.OwnerID == nil || *claims.OwnerID != ownerID {
		t.Fatalf("new token owner = %v, want %s", claims.OwnerID, ownerID)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    "jti",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc := buildAuthService(t, &stubUserRepo{}, &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken})
	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: token, RefreshToken: "stolen"})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	svc := buildAuthService(t, &stubUserRepo{}, &stubSessionManager{})
	_, err := svc.Refresh(context.Background(), RefreshRequest{AccessToken: "not-a-jwt", RefreshToken: "r"})
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := buildAuthService(t, &stubUserRepo{}, sessions)

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revokedID != "access-id" {
		t.Fatalf("revoked %q, want access-id", sessions.revokedID)
	}

	err := svc.Logout(context.Background(), "  ")
	if err == nil {
		t.Fatal("expected error for blank access id")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
