package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	getResult *domain.User
	getErr    error
	getCalls  int
	getLast   string

	listResult []domain.UserSummary
	listErr    error

	updateLoginErr   error
	updateLoginCalls int
	updateLoginUser  string
	updateLoginAt    time.Time

	existsResult bool
	existsErr    error
	existsCalls  int
	existsLast   string
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) Get(_ context.Context, username string) (*domain.User, error) {
	m.getCalls++
	m.getLast = username
	if m.getResult != nil {
		copied := *m.getResult
		return &copied, m.getErr
	}
	return nil, m.getErr
}

func (m *mockUserRepository) List(context.Context) ([]domain.UserSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.UserSummary, len(m.listResult))
	copy(out, m.listResult)
	return out, nil
}

func (m *mockUserRepository) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	m.updateLoginCalls++
	m.updateLoginUser = username
	m.updateLoginAt = at
	return m.updateLoginErr
}

func (m *mockUserRepository) Exists(_ context.Context, username string) (bool, error) {
	m.existsCalls++
	m.existsLast = username
	return m.existsResult, m.existsErr
}

type mockMessageRepository struct {
	createErr      error
	createCalls    int
	createdMessage domain.Message

	getResult *domain.MessageDetail
	getErr    error
	getCalls  int
	getLastID string

	markReadResult time.Time
	markReadErr    error
	markReadCalls  int
	markReadLastID string

	listFromResult []domain.ConversationEntry
	listFromErr    error
	listToResult   []domain.ConversationEntry
	listToErr      error
}

func (m *mockMessageRepository) Create(_ context.Context, message domain.Message) error {
	m.createCalls++
	m.createdMessage = message
	return m.createErr
}

func (m *mockMessageRepository) Get(_ context.Context, id string) (*domain.MessageDetail, error) {
	m.getCalls++
	m.getLastID = id
	if m.getResult != nil {
		copied := *m.getResult
		return &copied, m.getErr
	}
	return nil, m.getErr
}

func (m *mockMessageRepository) MarkRead(_ context.Context, id string, _ time.Time) (time.Time, error) {
	m.markReadCalls++
	m.markReadLastID = id
	return m.markReadResult, m.markReadErr
}

func (m *mockMessageRepository) ListFrom(context.Context, string) ([]domain.ConversationEntry, error) {
	if m.listFromErr != nil {
		return nil, m.listFromErr
	}
	out := make([]domain.ConversationEntry, len(m.listFromResult))
	copy(out, m.listFromResult)
	return out, nil
}

func (m *mockMessageRepository) ListTo(context.Context, string) ([]domain.ConversationEntry, error) {
	if m.listToErr != nil {
		return nil, m.listToErr
	}
	out := make([]domain.ConversationEntry, len(m.listToResult))
	copy(out, m.listToResult)
	return out, nil
}

type mockEventPublisher struct {
	registeredEvents []domain.UserRegisteredEvent
	sentEvents       []domain.MessageSentEvent
	readEvents       []domain.MessageReadEvent
	publishErr       error
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredEvents = append(m.registeredEvents, event)
	return m.publishErr
}

func (m *mockEventPublisher) PublishMessageSent(_ context.Context, event domain.MessageSentEvent) error {
	m.sentEvents = append(m.sentEvents, event)
	return m.publishErr
}

func (m *mockEventPublisher) PublishMessageRead(_ context.Context, event domain.MessageReadEvent) error {
	m.readEvents = append(m.readEvents, event)
	return m.publishErr
}

type mockTokenDenylist struct {
	revoked     map[string]time.Duration
	revokeErr   error
	isRevokedFn func(jti string) (bool, error)
}

func newMockTokenDenylist() *mockTokenDenylist {
	return &mockTokenDenylist{revoked: make(map[string]time.Duration)}
}

func (m *mockTokenDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *mockTokenDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	if m.isRevokedFn != nil {
		return m.isRevokedFn(jti)
	}
	_, ok := m.revoked[jti]
	return ok, nil
}

var errBackend = errors.New("backend unavailable")
