package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestTokenDenylist_RevokeAndCheck(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewTokenDenylistRepository(client, "denylist")

	ctx := context.Background()
	ttl := 2 * time.Minute

	if err := repo.Revoke(ctx, "jti-123", ttl); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	revoked, err := repo.IsRevoked(ctx, "jti-123")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if !revoked {
		t.Fatalf("expected jti to be revoked")
	}

	remaining := server.TTL("denylist:jti-123")
	if remaining <= 0 || remaining > ttl {
		t.Fatalf("expected ttl within (0, %v], got %v", ttl, remaining)
	}
}

func TestTokenDenylist_IsRevokedMiss(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewTokenDenylistRepository(client, "denylist")

	revoked, err := repo.IsRevoked(context.Background(), "unknown-jti")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatalf("expected unknown jti to be absent")
	}
}

func TestTokenDenylist_RevokeExpiredTokenIsNoop(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewTokenDenylistRepository(client, "denylist")

	if err := repo.Revoke(context.Background(), "jti-expired", -time.Minute); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	if server.Exists("denylist:jti-expired") {
		t.Fatalf("expected no key for an already expired token")
	}
}

func TestTokenDenylist_EntryExpires(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewTokenDenylistRepository(client, "denylist")

	ctx := context.Background()
	if err := repo.Revoke(ctx, "jti-short", time.Second); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	server.FastForward(2 * time.Second)

	revoked, err := repo.IsRevoked(ctx, "jti-short")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatalf("expected revocation to age out with the token")
	}
}

func TestTokenDenylist_DefaultPrefix(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewTokenDenylistRepository(client, "  ")

	if err := repo.Revoke(context.Background(), "jti-1", time.Minute); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	if !server.Exists("messaging:token_denylist:jti-1") {
		t.Fatalf("expected default prefix to apply")
	}
}
