package port

import (
	"context"
	"time"
)

// TokenDenylist records revoked token identifiers until they would have
// expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
