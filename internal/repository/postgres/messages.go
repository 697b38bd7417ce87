package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/core/port"
	"github.com/arklim/social-platform-messaging/internal/repository"
)

// MessageRepository implements port.MessageRepository using PostgreSQL.
type MessageRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMessageRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewMessageRepository(exec pgExecutor) *MessageRepository {
	return &MessageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new message row. A missing recipient or sender trips the
// foreign keys and surfaces as repository.ErrForeignKey.
func (r *MessageRepository) Create(ctx context.Context, message domain.Message) error {
	stmt, args, err := r.builder.Insert("messaging.messages").
		Columns(
			"id",
			"from_username",
			"to_username",
			"body",
			"sent_at",
			"read_at",
		).
		Values(
			message.ID,
			message.FromUsername,
			message.ToUsername,
			message.Body,
			message.SentAt,
			message.ReadAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated != err {
			return translated
		}
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// Get fetches a message by id with both parties expanded to their public summaries.
func (r *MessageRepository) Get(ctx context.Context, id string) (*domain.MessageDetail, error) {
	stmt, args, err := r.builder.
		Select(
			"m.id",
			"m.body",
			"m.sent_at",
			"m.read_at",
			"f.username",
			"f.first_name",
			"f.last_name",
			"f.phone",
			"t.username",
			"t.first_name",
			"t.last_name",
			"t.phone",
		).
		From("messaging.messages m").
		Join("messaging.users f ON m.from_username = f.username").
		Join("messaging.users t ON m.to_username = t.username").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select message sql: %w", err)
	}

	var detail domain.MessageDetail
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		&detail.ID,
		&detail.Body,
		&detail.SentAt,
		&detail.ReadAt,
		&detail.FromUser.Username,
		&detail.FromUser.FirstName,
		&detail.FromUser.LastName,
		&detail.FromUser.Phone,
		&detail.ToUser.Username,
		&detail.ToUser.FirstName,
		&detail.ToUser.LastName,
		&detail.ToUser.Phone,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}

	return &detail, nil
}

// MarkRead stamps read_at when it is still unset. COALESCE keeps the original
// timestamp on repeat calls, so the null to timestamp transition happens at
// most once even under concurrent marking.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, at time.Time) (time.Time, error) {
	const stmt = `
		UPDATE messaging.messages
		   SET read_at = COALESCE(read_at, $2)
		 WHERE id = $1
		 RETURNING read_at
	`

	var readAt time.Time
	row := r.exec.QueryRow(ctx, stmt, id, at)
	if err := row.Scan(&readAt); err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, repository.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("mark message read: %w", err)
	}

	return readAt, nil
}

// ListFrom returns messages sent by the user with the recipient's summary joined in.
func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]domain.ConversationEntry, error) {
	stmt, args, err := r.builder.
		Select(
			"m.id",
			"m.body",
			"m.sent_at",
			"m.read_at",
			"u.username",
			"u.first_name",
			"u.last_name",
			"u.phone",
		).
		From("messaging.messages m").
		Join("messaging.users u ON m.to_username = u.username").
		Where(squirrel.Eq{"m.from_username": username}).
		OrderBy("m.sent_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sent messages sql: %w", err)
	}

	return r.queryEntries(ctx, stmt, args)
}

// ListTo returns messages received by the user with the sender's summary joined in.
func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]domain.ConversationEntry, error) {
	stmt, args, err := r.builder.
		Select(
			"m.id",
			"m.body",
			"m.sent_at",
			"m.read_at",
			"u.username",
			"u.first_name",
			"u.last_name",
			"u.phone",
		).
		From("messaging.messages m").
		Join("messaging.users u ON m.from_username = u.username").
		Where(squirrel.Eq{"m.to_username": username}).
		OrderBy("m.sent_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list received messages sql: %w", err)
	}

	return r.queryEntries(ctx, stmt, args)
}

func (r *MessageRepository) queryEntries(ctx context.Context, stmt string, args []any) ([]domain.ConversationEntry, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.ConversationEntry, 0)
	for rows.Next() {
		var entry domain.ConversationEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Body,
			&entry.SentAt,
			&entry.ReadAt,
			&entry.Counterpart.Username,
			&entry.Counterpart.FirstName,
			&entry.Counterpart.LastName,
			&entry.Counterpart.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan message entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return entries, nil
}

var _ port.MessageRepository = (*MessageRepository)(nil)
