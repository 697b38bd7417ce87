package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

// UserService exposes the user directory: listings, profiles, and the
// per-user sent/received message views.
type UserService struct {
	users    port.UserRepository
	messages port.MessageRepository
}

// NewUserService constructs a UserService instance.
func NewUserService(users port.UserRepository, messages port.MessageRepository) *UserService {
	return &UserService{users: users, messages: messages}
}

// List returns the public summary of every user ordered by username.
func (s *UserService) List(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Get returns the full public profile of a single user. The password hash
// never leaves this layer.
func (s *UserService) Get(ctx context.Context, username string) (domain.User, error) {
	if username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", ErrValidation)
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return sanitized, nil
}

// MessagesFrom returns the messages the user sent, each with the recipient's
// public summary, ordered by sent_at ascending.
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]domain.ConversationEntry, error) {
	if err := s.ensureExists(ctx, username); err != nil {
		return nil, err
	}

	entries, err := s.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list sent messages: %w", err)
	}
	return entries, nil
}

// MessagesTo returns the messages the user received, each with the sender's
// public summary, ordered by sent_at ascending.
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]domain.ConversationEntry, error) {
	if err := s.ensureExists(ctx, username); err != nil {
		return nil, err
	}

	entries, err := s.messages.ListTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list received messages: %w", err)
	}
	return entries, nil
}

func (s *UserService) ensureExists(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}
