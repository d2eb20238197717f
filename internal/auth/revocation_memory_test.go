package auth

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }

	if err := r.Revoke(ctx, "abc", time.Minute); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := r.IsRevoked(ctx, "abc"); !ok {
		t.Fatal("expected token to be revoked")
	}
	if ok, _ := r.IsRevoked(ctx, "other"); ok {
		t.Fatal("unrelated token must not be revoked")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := r.IsRevoked(ctx, "abc"); ok {
		t.Fatal("revocation must lapse after ttl")
	}
}
