package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour, "salon-pos")

	token, expiresAt, err := codec.Issue(7, "owner")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(expiresAt); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry %v is not one hour ahead", d)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "owner" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
	if claims.Subject != "7" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenCodec([]byte("test-secret"), time.Hour, "salon-pos").
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	token, _, err := issuer.Issue(1, "staff")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := NewTokenCodec([]byte("test-secret"), time.Hour, "salon-pos")
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenCodec([]byte("other-secret"), time.Hour, "x").Issue(1, "staff")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	codec := NewTokenCodec([]byte("test-secret"), time.Hour, "salon-pos")
	if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour, "salon-pos")
	if _, err := codec.Verify("not.a.token"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("err = %v, want ErrTokenMalformed", err)
	}
}

func TestDefaultTTLIsOneHour(t *testing.T) {
	if got := NewTokenCodec([]byte("k"), 0, "").TTL(); got != time.Hour {
		t.Errorf("ttl = %v", got)
	}
}
