package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("admin", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !IsPasswordHash(hash) {
		t.Fatalf("IsPasswordHash(%q) = false", hash)
	}
	if err := ComparePassword(hash, "admin"); err != nil {
		t.Fatalf("ComparePassword() error = %v", err)
	}
	if err := ComparePassword(hash, "Admin"); err == nil {
		t.Fatal("ComparePassword() should reject a different password")
	}
}

func TestIsPasswordHash(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"admin", "$2a$", "$2b$xx$notahash", "$argon2id$v=19$"} {
		if IsPasswordHash(value) {
			t.Errorf("IsPasswordHash(%q) = true", value)
		}
	}
}
