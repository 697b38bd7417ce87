package port

import (
	"context"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishMessageSent(ctx context.Context, event domain.MessageSentEvent) error
	PublishMessageRead(ctx context.Context, event domain.MessageReadEvent) error
}
