package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
)

// MessageRepository exposes persistence behavior for messages.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	Get(ctx context.Context, id string) (*domain.MessageDetail, error)
	// MarkRead stamps read_at when it is still unset and returns the
	// resulting timestamp. Re-marking an already-read message returns the
	// original timestamp unchanged.
	MarkRead(ctx context.Context, id string, at time.Time) (time.Time, error)
	ListFrom(ctx context.Context, username string) ([]domain.ConversationEntry, error)
	ListTo(ctx context.Context, username string) ([]domain.ConversationEntry, error)
}
