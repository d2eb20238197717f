package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if a == b {
		t.Error("two hashes of the same password must differ")
	}
	if strings.Contains(a, "s3cret") {
		t.Error("digest must not contain the plaintext")
	}
	if !strings.HasPrefix(a, "$2a$10$") {
		t.Errorf("digest %q does not carry cost 10", a)
	}
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyPassword("s3cret", digest) {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword("wrong", digest) {
		t.Error("expected wrong password to fail")
	}
	if VerifyPassword("s3cret", "not-a-bcrypt-digest") {
		t.Error("malformed digest must fail closed")
	}
	if VerifyPassword("", "") {
		t.Error("empty digest must fail closed")
	}
}
