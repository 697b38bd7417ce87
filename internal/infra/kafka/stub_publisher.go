package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, username string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("username", username),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs messaging.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"username":      event.Username,
		"phone":         event.Phone,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("messaging.user.registered", event.Username, event.RegisteredAt, payload)
	return nil
}

// PublishMessageSent logs messaging.message.sent events.
func (p *StubPublisher) PublishMessageSent(_ context.Context, event domain.MessageSentEvent) error {
	payload := map[string]any{
		"message_id":    event.MessageID,
		"from_username": event.FromUsername,
		"to_username":   event.ToUsername,
		"sent_at":       event.SentAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("messaging.message.sent", event.FromUsername, event.SentAt, payload)
	return nil
}

// PublishMessageRead logs messaging.message.read events.
func (p *StubPublisher) PublishMessageRead(_ context.Context, event domain.MessageReadEvent) error {
	payload := map[string]any{
		"message_id":  event.MessageID,
		"to_username": event.ToUsername,
		"read_at":     event.ReadAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("messaging.message.read", event.ToUsername, event.ReadAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
