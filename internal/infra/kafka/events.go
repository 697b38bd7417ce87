package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Username  string           `json:"username,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, username string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Username:  username,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes messaging.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		Username     string         `json:"username"`
		Phone        string         `json:"phone,omitempty"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		Username:     event.Username,
		Phone:        event.Phone,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.Username, event.RegisteredAt, payload)
}

// PublishMessageSent publishes messaging.message.sent events.
func (p *EventPublisher) PublishMessageSent(ctx context.Context, event domain.MessageSentEvent) error {
	payload := struct {
		MessageID    string         `json:"message_id"`
		FromUsername string         `json:"from_username"`
		ToUsername   string         `json:"to_username"`
		SentAt       time.Time      `json:"sent_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		MessageID:    event.MessageID,
		FromUsername: event.FromUsername,
		ToUsername:   event.ToUsername,
		SentAt:       event.SentAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "message.sent", event.FromUsername, event.SentAt, payload)
}

// PublishMessageRead publishes messaging.message.read events.
func (p *EventPublisher) PublishMessageRead(ctx context.Context, event domain.MessageReadEvent) error {
	payload := struct {
		MessageID  string         `json:"message_id"`
		ToUsername string         `json:"to_username"`
		ReadAt     time.Time      `json:"read_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		MessageID:  event.MessageID,
		ToUsername: event.ToUsername,
		ReadAt:     event.ReadAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "message.read", event.ToUsername, event.ReadAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
