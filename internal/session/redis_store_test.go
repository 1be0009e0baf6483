package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLookupRefreshSession(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	data := TokenData{UID: "uid-123", Email: "hana@example.com"}
	if err := store.SaveRefreshSession(ctx, "hash-1", data, time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession: %v", err)
	}

	got, err := store.LookupRefreshSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("LookupRefreshSession: %v", err)
	}
	if got.UID != "uid-123" || got.Email != "hana@example.com" {
		t.Fatalf("lookup mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped on save")
	}
}

func TestLookupUnknownRefreshSession(t *testing.T) {
	store := setupTestRedis(t)

	if _, err := store.LookupRefreshSession(context.Background(), "missing"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestRevokeRefreshSession(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.SaveRefreshSession(ctx, "hash-2", TokenData{UID: "uid-2"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession: %v", err)
	}
	if err := store.RevokeRefreshSession(ctx, "hash-2"); err != nil {
		t.Fatalf("RevokeRefreshSession: %v", err)
	}
	if _, err := store.LookupRefreshSession(ctx, "hash-2"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("revoked token lookup err = %v, want ErrTokenNotFound", err)
	}
}

func TestAccessTokenDenylist(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	revoked, err := store.IsAccessTokenRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh jti revoked=%v err=%v, want false/nil", revoked, err)
	}

	if err := store.RevokeAccessToken(ctx, "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("RevokeAccessToken: %v", err)
	}
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("denylisted jti revoked=%v err=%v, want true/nil", revoked, err)
	}

	// Revoking an already-expired token is a no-op.
	if err := store.RevokeAccessToken(ctx, "jti-2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("RevokeAccessToken(expired): %v", err)
	}
	revoked, err = store.IsAccessTokenRevoked(ctx, "jti-2")
	if err != nil || revoked {
		t.Fatalf("expired jti revoked=%v err=%v, want false/nil", revoked, err)
	}
}
