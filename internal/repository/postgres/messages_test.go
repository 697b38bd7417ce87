package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

func TestMessageRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	message := domain.Message{
		ID:           "2f0c8f2f-6f0a-4d1c-b6a5-31b6cf4a5f10",
		FromUsername: "alice",
		ToUsername:   "bob",
		Body:         "hello bob",
		SentAt:       time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO messaging\.messages`).
		WithArgs(
			message.ID,
			message.FromUsername,
			message.ToUsername,
			message.Body,
			message.SentAt,
			message.ReadAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), message); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_CreateUnknownRecipient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	message := domain.Message{
		ID:           "2f0c8f2f-6f0a-4d1c-b6a5-31b6cf4a5f10",
		FromUsername: "alice",
		ToUsername:   "ghost",
		Body:         "anyone there?",
		SentAt:       time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO messaging\.messages`).
		WithArgs(
			message.ID,
			message.FromUsername,
			message.ToUsername,
			message.Body,
			message.SentAt,
			message.ReadAt,
		).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "messages_to_username_fkey"})

	err = repo.Create(context.Background(), message)
	if !errors.Is(err, repository.ErrForeignKey) {
		t.Fatalf("expected ErrForeignKey, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	sentAt := time.Now().UTC().Add(-time.Hour)
	readAt := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "body", "sent_at", "read_at",
		"username", "first_name", "last_name", "phone",
		"username", "first_name", "last_name", "phone",
	}).AddRow(
		"msg-1", "hello bob", sentAt, &readAt,
		"alice", "Alice", "Anderson", "+15551234567",
		"bob", "Bob", "Barker", "+15557654321",
	)

	mock.ExpectQuery(`SELECT .*FROM messaging\.messages m JOIN messaging\.users f`).
		WithArgs("msg-1").
		WillReturnRows(rows)

	detail, err := repo.Get(context.Background(), "msg-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if detail.FromUser.Username != "alice" || detail.ToUser.Username != "bob" {
		t.Fatalf("expected both parties expanded, got %s and %s", detail.FromUser.Username, detail.ToUser.Username)
	}
	if detail.ReadAt == nil || !detail.ReadAt.Equal(readAt) {
		t.Fatalf("expected read_at %v, got %v", readAt, detail.ReadAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_GetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	rows := pgxmock.NewRows([]string{
		"id", "body", "sent_at", "read_at",
		"username", "first_name", "last_name", "phone",
		"username", "first_name", "last_name", "phone",
	})

	mock.ExpectQuery(`SELECT .*FROM messaging\.messages m JOIN messaging\.users f`).
		WithArgs("missing").
		WillReturnRows(rows)

	_, err = repo.Get(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_MarkRead(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	at := time.Now().UTC()

	mock.ExpectQuery(`UPDATE messaging\.messages\s+SET read_at = COALESCE\(read_at, \$2\)`).
		WithArgs("msg-1", at).
		WillReturnRows(pgxmock.NewRows([]string{"read_at"}).AddRow(at))

	readAt, err := repo.MarkRead(context.Background(), "msg-1", at)
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !readAt.Equal(at) {
		t.Fatalf("expected read_at %v, got %v", at, readAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_MarkReadKeepsFirstTimestamp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	firstRead := time.Now().UTC().Add(-time.Minute)
	secondAttempt := time.Now().UTC()

	mock.ExpectQuery(`UPDATE messaging\.messages\s+SET read_at = COALESCE\(read_at, \$2\)`).
		WithArgs("msg-1", secondAttempt).
		WillReturnRows(pgxmock.NewRows([]string{"read_at"}).AddRow(firstRead))

	readAt, err := repo.MarkRead(context.Background(), "msg-1", secondAttempt)
	if err != nil {
		t.Fatalf("MarkRead returned error: %v", err)
	}
	if !readAt.Equal(firstRead) {
		t.Fatalf("expected original read_at %v to survive, got %v", firstRead, readAt)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_MarkReadNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	at := time.Now().UTC()

	mock.ExpectQuery(`UPDATE messaging\.messages\s+SET read_at = COALESCE\(read_at, \$2\)`).
		WithArgs("missing", at).
		WillReturnRows(pgxmock.NewRows([]string{"read_at"}))

	_, err = repo.MarkRead(context.Background(), "missing", at)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_ListFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	first := time.Now().UTC().Add(-2 * time.Hour)
	second := time.Now().UTC().Add(-time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "body", "sent_at", "read_at",
		"username", "first_name", "last_name", "phone",
	}).
		AddRow("msg-1", "first", first, nil, "bob", "Bob", "Barker", "+15557654321").
		AddRow("msg-2", "second", second, nil, "carol", "Carol", "Chen", "+15559990000")

	mock.ExpectQuery(`SELECT .*FROM messaging\.messages m JOIN messaging\.users u ON m\.to_username = u\.username`).
		WithArgs("alice").
		WillReturnRows(rows)

	entries, err := repo.ListFrom(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListFrom returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Counterpart.Username != "bob" {
		t.Fatalf("expected recipient summary joined, got %s", entries[0].Counterpart.Username)
	}
	if !entries[0].SentAt.Before(entries[1].SentAt) {
		t.Fatalf("expected chronological ordering")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMessageRepository_ListTo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMessageRepository(mock)

	sentAt := time.Now().UTC().Add(-time.Hour)
	readAt := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "body", "sent_at", "read_at",
		"username", "first_name", "last_name", "phone",
	}).AddRow("msg-3", "hey alice", sentAt, &readAt, "bob", "Bob", "Barker", "+15557654321")

	mock.ExpectQuery(`SELECT .*FROM messaging\.messages m JOIN messaging\.users u ON m\.from_username = u\.username`).
		WithArgs("alice").
		WillReturnRows(rows)

	entries, err := repo.ListTo(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListTo returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Counterpart.Username != "bob" {
		t.Fatalf("expected sender summary joined, got %s", entries[0].Counterpart.Username)
	}
	if entries[0].ReadAt == nil || !entries[0].ReadAt.Equal(readAt) {
		t.Fatalf("expected read_at to carry through")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
