package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-messaging/internal/core/port"
)

const defaultDenylistPrefix = "messaging:token_denylist"

// TokenDenylistRepository records revoked token identifiers in Redis, keyed
// by jti and expiring when the token itself would have expired.
type TokenDenylistRepository struct {
	client *red.Client
	prefix string
}

// NewTokenDenylistRepository wires Redis storage for revoked tokens.
func NewTokenDenylistRepository(client *red.Client, prefix string) *TokenDenylistRepository {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		trimmed = defaultDenylistPrefix
	}
	return &TokenDenylistRepository{client: client, prefix: trimmed}
}

func (r *TokenDenylistRepository) key(jti string) string {
	return fmt.Sprintf("%s:%s", r.prefix, jti)
}

// Revoke stores the jti for the remaining token lifetime. A non-positive TTL
// means the token is already expired and there is nothing to record.
func (r *TokenDenylistRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("token denylist not configured")
	}
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("jti is required")
	}
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set revoked token: %w", err)
	}

	return nil
}

// IsRevoked reports whether the jti was revoked and has not yet aged out.
func (r *TokenDenylistRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.client == nil {
		return false, fmt.Errorf("token denylist not configured")
	}

	_, err := r.client.Get(ctx, r.key(jti)).Result()
	if err != nil {
		if err == red.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis get revoked token: %w", err)
	}

	return true, nil
}

var _ port.TokenDenylist = (*TokenDenylistRepository)(nil)
