package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/briankemboi/dukapos-backend/pkg/config"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

var tokenTestConfig = config.JWTConfig{
	Secret:            "token-test-secret",
	Issuer:            "dukapos-test",
	ExpirationMinutes: 15,
}

func TestMintAndParseAccessToken(t *testing.T) {
	userID := uuid.New()
	ownerID := uuid.New()
	shopID := uuid.New()

	token, err := MintAccessToken(tokenTestConfig, time.Now().UTC(), AccessTokenPayload{
		UserID:  userID,
		OwnerID: &ownerID,
		ShopID:  &shopID,
		Role:    enums.UserRoleWorker,
		JTI:     "session-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(tokenTestConfig, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s", claims.UserID)
	}
	if claims.OwnerID == nil || *claims.OwnerID != ownerID {
		t.Fatalf("owner id = %v", claims.OwnerID)
	}
	if claims.ShopID == nil || *claims.ShopID != shopID {
		t.Fatalf("shop id = %v", claims.ShopID)
	}
	if claims.Role != enums.UserRoleWorker {
		t.Fatalf("role = %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("jti = %q", claims.ID)
	}
	if claims.Issuer != tokenTestConfig.Issuer {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestMintGeneratesJTIWhenBlank(t *testing.T) {
	token, err := MintAccessToken(tokenTestConfig, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
		JTI:    "   ",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(tokenTestConfig, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintRejectsInvalidInputs(t *testing.T) {
	payload := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	cases := []struct {
		name string
		cfg  config.JWTConfig
		p    AccessTokenPayload
	}{
		{"missing secret", config.JWTConfig{Issuer: "i", ExpirationMinutes: 5}, payload},
		{"missing issuer", config.JWTConfig{Secret: "s", ExpirationMinutes: 5}, payload},
		{"zero expiration", config.JWTConfig{Secret: "s", Issuer: "i"}, payload},
		{"invalid role", tokenTestConfig, AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRole("boss")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MintAccessToken(tc.cfg, time.Now().UTC(), tc.p); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(tokenTestConfig, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := tokenTestConfig
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := MintAccessToken(tokenTestConfig, time.Now().UTC(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := tokenTestConfig
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer error")
	}
}

func TestParseRejectsExpiredButAllowExpiredAccepts(t *testing.T) {
	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(tokenTestConfig, issued, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleWorker,
		JTI:    "expired-session",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAccessToken(tokenTestConfig, token); err == nil {
		t.Fatal("expected expiry error")
	}

	claims, err := ParseAccessTokenAllowExpired(tokenTestConfig, token)
	if err != nil {
		t.Fatalf("allow expired parse: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("jti = %q", claims.ID)
	}
}

func TestTenantID(t *testing.T) {
	adminID := uuid.New()
	admin := &AccessTokenClaims{UserID: adminID, Role: enums.UserRoleAdmin}
	if admin.TenantID() != adminID {
		t.Fatalf("admin tenant = %s", admin.TenantID())
	}

	ownerID := uuid.New()
	worker := &AccessTokenClaims{UserID: uuid.New(), OwnerID: &ownerID, Role: enums.UserRoleWorker}
	if worker.TenantID() != ownerID {
		t.Fatalf("worker tenant = %s", worker.TenantID())
	}

	developer := &AccessTokenClaims{UserID: uuid.New(), Role: enums.UserRoleDeveloper}
	if developer.TenantID() != uuid.Nil {
		t.Fatalf("developer tenant = %s", developer.TenantID())
	}
}
