package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
)

// UserRepository exposes persistence behavior for users. Username uniqueness
// is enforced by the store itself; Create surfaces a violation as
// repository.ErrDuplicate.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.UserSummary, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
	Exists(ctx context.Context, username string) (bool, error)
}
