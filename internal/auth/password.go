package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const PasswordCost = 10

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword fails closed: a malformed digest never matches.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

var dummyDigest []byte

func init() {
	hashed, err := bcrypt.GenerateFromPassword([]byte("dummy_password_for_timing_attack_prevention"), PasswordCost)
	if err != nil {
		panic(fmt.Sprintf("auth: failed to generate dummy digest: %v", err))
	}
	dummyDigest = hashed
}

// BurnPasswordCheck spends the same bcrypt work as a real comparison. Login
// calls it for unknown accounts so response timing does not reveal whether
// an email is registered.
func BurnPasswordCheck(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(plain))
}
