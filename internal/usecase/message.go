package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

// MessageService handles message creation, lookup, and read receipts. The
// participant and recipient checks live here so every transport shares the
// same authorization rules.
type MessageService struct {
	messages port.MessageRepository
	users    port.UserRepository
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(messages port.MessageRepository, users port.UserRepository, events port.EventPublisher) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		events:   events,
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a logger for event-publishing diagnostics.
func (s *MessageService) WithLogger(log *zap.Logger) *MessageService {
	if log != nil {
		s.logger = log
	}
	return s
}

// Create persists a new message from the authenticated sender. An unknown
// recipient is a client error, not an internal one.
func (s *MessageService) Create(ctx context.Context, from, to, body string) (domain.Message, error) {
	if strings.TrimSpace(to) == "" {
		return domain.Message{}, fmt.Errorf("%w: to_username is required", ErrValidation)
	}
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, fmt.Errorf("%w: body is required", ErrValidation)
	}

	exists, err := s.users.Exists(ctx, to)
	if err != nil {
		return domain.Message{}, fmt.Errorf("lookup recipient: %w", err)
	}
	if !exists {
		return domain.Message{}, ErrRecipientNotFound
	}

	message := domain.Message{
		ID:           uuid.NewString(),
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       time.Now().UTC(),
	}

	if err := s.messages.Create(ctx, message); err != nil {
		// The recipient may disappear between the existence check and the
		// insert; the foreign key closes that race.
		if errors.Is(err, repository.ErrForeignKey) {
			return domain.Message{}, ErrRecipientNotFound
		}
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}

	if s.events != nil {
		event := domain.MessageSentEvent{
			MessageID:    message.ID,
			FromUsername: message.FromUsername,
			ToUsername:   message.ToUsername,
			SentAt:       message.SentAt,
		}
		if err := s.events.PublishMessageSent(ctx, event); err != nil {
			s.logger.Warn("publish message sent event failed",
				zap.String("message_id", message.ID),
				zap.Error(err),
			)
		}
	}

	return message, nil
}

// Get returns the full message detail. Only participants may read a message;
// everyone else gets ErrNotParticipant regardless of whether they guessed a
// real id.
func (s *MessageService) Get(ctx context.Context, id, viewer string) (domain.MessageDetail, error) {
	detail, err := s.fetch(ctx, id)
	if err != nil {
		return domain.MessageDetail{}, err
	}

	if !detail.IsParticipant(viewer) {
		return domain.MessageDetail{}, ErrNotParticipant
	}

	return *detail, nil
}

// ReadReceipt is the result of marking a message read.
type ReadReceipt struct {
	ID     string
	ReadAt time.Time
}

// MarkRead stamps the read receipt on behalf of the recipient. Marking an
// already-read message is a no-op that returns the original timestamp.
func (s *MessageService) MarkRead(ctx context.Context, id, viewer string) (ReadReceipt, error) {
	detail, err := s.fetch(ctx, id)
	if err != nil {
		return ReadReceipt{}, err
	}

	if detail.ToUser.Username != viewer {
		return ReadReceipt{}, ErrNotRecipient
	}

	firstRead := detail.ReadAt == nil

	readAt, err := s.messages.MarkRead(ctx, id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ReadReceipt{}, ErrMessageNotFound
		}
		return ReadReceipt{}, fmt.Errorf("mark message read: %w", err)
	}

	if firstRead && s.events != nil {
		event := domain.MessageReadEvent{
			MessageID:  id,
			ToUsername: viewer,
			ReadAt:     readAt,
		}
		if err := s.events.PublishMessageRead(ctx, event); err != nil {
			s.logger.Warn("publish message read event failed",
				zap.String("message_id", id),
				zap.Error(err),
			)
		}
	}

	return ReadReceipt{ID: id, ReadAt: readAt}, nil
}

func (s *MessageService) fetch(ctx context.Context, id string) (*domain.MessageDetail, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: message id is required", ErrValidation)
	}

	detail, err := s.messages.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("lookup message: %w", err)
	}

	return detail, nil
}
