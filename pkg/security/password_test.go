package security

import (
	"strings"
	"testing"

	"github.com/briankemboi/dukapos-backend/pkg/config"
)

var testConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("duka-p@ss-123", testConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := VerifyPassword("duka-p@ss-123", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("same input", testConfig)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("same input", testConfig)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword("", testConfig); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$not-base64!$aGFzaA",
	} {
		if _, err := VerifyPassword("whatever", encoded); err == nil {
			t.Errorf("VerifyPassword with hash %q succeeded, want error", encoded)
		}
	}
}

func TestGenerateTempPassword(t *testing.T) {
	password, err := GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(password) != 12 {
		t.Fatalf("length = %d", len(password))
	}

	if _, err := GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
