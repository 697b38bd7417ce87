package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/infra/security"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users             port.UserRepository
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(users port.UserRepository, validator *security.PasswordValidator, events port.EventPublisher) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator(0, 0)
	}
	return &RegistrationService{
		users:             users,
		passwordValidator: validator,
		events:            events,
		logger:            zap.NewNop(),
	}
}

// WithLogger attaches a logger for event-publishing diagnostics.
func (s *RegistrationService) WithLogger(log *zap.Logger) *RegistrationService {
	if log != nil {
		s.logger = log
	}
	return s
}

// RegisterInput carries the required registration fields.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (in RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	case strings.TrimSpace(in.FirstName) == "":
		return fmt.Errorf("%w: first_name is required", ErrValidation)
	case strings.TrimSpace(in.LastName) == "":
		return fmt.Errorf("%w: last_name is required", ErrValidation)
	case strings.TrimSpace(in.Phone) == "":
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	return nil
}

// RegisterUser creates a new account. The password is hashed before storage
// and the returned record never carries the hash. Username uniqueness is
// enforced by the store, so concurrent registrations of the same name cannot
// both succeed.
func (s *RegistrationService) RegisterUser(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}

	if err := s.passwordValidator.Validate(in.Password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrPasswordPolicy, err)
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		JoinAt:       now,
		LastLoginAt:  now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			Username:     user.Username,
			Phone:        user.Phone,
			RegisteredAt: user.JoinAt,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed",
				zap.String("username", user.Username),
				zap.Error(err),
			)
		}
	}

	user.PasswordHash = ""
	return user, nil
}
