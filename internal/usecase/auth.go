package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/infra/security"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

// AuthService coordinates authentication: credential checks, token issue and
// verification, and token revocation on logout.
type AuthService struct {
	users    port.UserRepository
	tokens   *security.TokenManager
	denylist port.TokenDenylist
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService instance. The denylist is
// optional; without it logout is a client-side concern.
func NewAuthService(users port.UserRepository, tokens *security.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: log}
}

// WithTokenDenylist enables server-side revocation of issued tokens.
func (s *AuthService) WithTokenDenylist(denylist port.TokenDenylist) *AuthService {
	s.denylist = denylist
	return s
}

// Authenticate reports whether the username/password pair is valid. An
// unknown username yields false without an error so callers cannot tell it
// apart from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}

	return ok, nil
}

// Login validates credentials, stamps last_login_at, and issues a bearer
// token. The timestamp update is awaited so a successful login response
// implies the update was durably applied.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", domain.User{}, err
	}
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, username, now); err != nil {
		return "", domain.User{}, fmt.Errorf("update login timestamp: %w", err)
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return token, sanitized, nil
}

// IssueToken signs a bearer token for the given username.
func (s *AuthService) IssueToken(username string) (string, error) {
	return s.tokens.Issue(username)
}

// ParseAccessToken verifies the supplied token and checks it against the
// revocation denylist. A revoked token is indistinguishable from an invalid
// one at the boundary.
func (s *AuthService) ParseAccessToken(ctx context.Context, token string) (*security.AccessTokenClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidAccessToken
		}
	}

	return claims, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *security.AccessTokenClaims) error {
	if claims == nil {
		return fmt.Errorf("%w: token claims are required", ErrValidation)
	}
	if s.denylist == nil {
		s.logger.Warn("logout requested but token denylist is not configured")
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	return nil
}
