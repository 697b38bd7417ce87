package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

func messageBetween(from, to string, readAt *time.Time) *domain.MessageDetail {
	return &domain.MessageDetail{
		ID:     "msg-1",
		Body:   "hello",
		SentAt: time.Now().UTC().Add(-time.Hour),
		ReadAt: readAt,
		FromUser: domain.UserSummary{
			Username: from, FirstName: "From", LastName: "User", Phone: "+15550000001",
		},
		ToUser: domain.UserSummary{
			Username: to, FirstName: "To", LastName: "User", Phone: "+15550000002",
		},
	}
}

func TestMessageCreateSuccess(t *testing.T) {
	users := &mockUserRepository{existsResult: true}
	messages := &mockMessageRepository{}
	events := &mockEventPublisher{}
	svc := NewMessageService(messages, users, events)

	message, err := svc.Create(context.Background(), "alice", "bob", "hello bob")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if message.ID == "" {
		t.Fatalf("expected a generated message id")
	}
	if message.FromUsername != "alice" || message.ToUsername != "bob" {
		t.Fatalf("expected sender and recipient recorded, got %s -> %s", message.FromUsername, message.ToUsername)
	}
	if message.ReadAt != nil {
		t.Fatalf("expected new message to be unread")
	}
	if messages.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", messages.createCalls)
	}
	if len(events.sentEvents) != 1 || events.sentEvents[0].MessageID != message.ID {
		t.Fatalf("expected a message sent event for %s", message.ID)
	}
}

func TestMessageCreateValidation(t *testing.T) {
	svc := NewMessageService(&mockMessageRepository{}, &mockUserRepository{}, nil)

	if _, err := svc.Create(context.Background(), "alice", "", "hello"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing recipient, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "alice", "bob", "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty body, got %v", err)
	}
}

func TestMessageCreateUnknownRecipient(t *testing.T) {
	users := &mockUserRepository{existsResult: false}
	messages := &mockMessageRepository{}
	svc := NewMessageService(messages, users, nil)

	if _, err := svc.Create(context.Background(), "alice", "ghost", "hello"); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
	if messages.createCalls != 0 {
		t.Fatalf("expected no insert for unknown recipient")
	}
}

func TestMessageCreateRecipientVanishes(t *testing.T) {
	users := &mockUserRepository{existsResult: true}
	messages := &mockMessageRepository{createErr: repository.ErrForeignKey}
	svc := NewMessageService(messages, users, nil)

	if _, err := svc.Create(context.Background(), "alice", "bob", "hello"); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound on foreign key violation, got %v", err)
	}
}

func TestMessageGetAsParticipant(t *testing.T) {
	messages := &mockMessageRepository{getResult: messageBetween("alice", "bob", nil)}
	svc := NewMessageService(messages, &mockUserRepository{}, nil)

	for _, viewer := range []string{"alice", "bob"} {
		detail, err := svc.Get(context.Background(), "msg-1", viewer)
		if err != nil {
			t.Fatalf("Get as %s returned error: %v", viewer, err)
		}
		if detail.ID != "msg-1" {
			t.Fatalf("expected msg-1, got %s", detail.ID)
		}
	}
}

func TestMessageGetAsOutsider(t *testing.T) {
	messages := &mockMessageRepository{getResult: messageBetween("alice", "bob", nil)}
	svc := NewMessageService(messages, &mockUserRepository{}, nil)

	if _, err := svc.Get(context.Background(), "msg-1", "mallory"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestMessageGetUnknown(t *testing.T) {
	messages := &mockMessageRepository{getErr: repository.ErrNotFound}
	svc := NewMessageService(messages, &mockUserRepository{}, nil)

	if _, err := svc.Get(context.Background(), "missing", "alice"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestMarkReadAsRecipient(t *testing.T) {
	readAt := time.Now().UTC()
	messages := &mockMessageRepository{
		getResult:      messageBetween("alice", "bob", nil),
		markReadResult: readAt,
	}
	events := &mockEventPublisher{}
	svc := NewMessageService(messages, &mockUserRepository{}, events)

	receipt, err := svc.MarkRead(context.Background(), "msg-1", "bob")
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !receipt.ReadAt.Equal(readAt) {
		t.Fatalf("expected read timestamp %v, got %v", readAt, receipt.ReadAt)
	}
	if len(events.readEvents) != 1 {
		t.Fatalf("expected a message read event on first read")
	}
}

func TestMarkReadAsSenderForbidden(t *testing.T) {
	messages := &mockMessageRepository{getResult: messageBetween("alice", "bob", nil)}
	svc := NewMessageService(messages, &mockUserRepository{}, nil)

	if _, err := svc.MarkRead(context.Background(), "msg-1", "alice"); !errors.Is(err, ErrNotRecipient) {
		t.Fatalf("expected ErrNotRecipient for the sender, got %v", err)
	}
	if messages.markReadCalls != 0 {
		t.Fatalf("expected no repository update when forbidden")
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	firstRead := time.Now().UTC().Add(-time.Minute)
	messages := &mockMessageRepository{
		getResult:      messageBetween("alice", "bob", &firstRead),
		markReadResult: firstRead,
	}
	events := &mockEventPublisher{}
	svc := NewMessageService(messages, &mockUserRepository{}, events)

	receipt, err := svc.MarkRead(context.Background(), "msg-1", "bob")
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !receipt.ReadAt.Equal(firstRead) {
		t.Fatalf("expected original read timestamp to survive, got %v", receipt.ReadAt)
	}
	if len(events.readEvents) != 0 {
		t.Fatalf("expected no event on repeat read")
	}
}

func TestMarkReadUnknownMessage(t *testing.T) {
	messages := &mockMessageRepository{getErr: repository.ErrNotFound}
	svc := NewMessageService(messages, &mockUserRepository{}, nil)

	if _, err := svc.MarkRead(context.Background(), "missing", "bob"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
