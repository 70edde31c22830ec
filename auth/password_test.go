package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the raw password")
	}

	if !CheckPassword(hash, "secret1") {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword(hash, "secret2") {
		t.Fatal("expected non-matching password to fail")
	}
}
