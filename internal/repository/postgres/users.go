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

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row. The primary key on username makes the store
// reject concurrent registrations of the same name; the violation surfaces as
// repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("messaging.users").
		Columns(
			"username",
			"password_hash",
			"first_name",
			"last_name",
			"phone",
			"join_at",
			"last_login_at",
		).
		Values(
			user.Username,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.Phone,
			user.JoinAt,
			user.LastLoginAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if translated := translateError(err); translated != err {
			return translated
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// Get retrieves the full user row by username.
func (r *UserRepository) Get(ctx context.Context, username string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(
			"username",
			"password_hash",
			"first_name",
			"last_name",
			"phone",
			"join_at",
			"last_login_at",
		).
		From("messaging.users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var user domain.User
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.JoinAt,
		&user.LastLoginAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

// List returns the public fields of every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]domain.UserSummary, error) {
	stmt, args, err := r.builder.
		Select("username", "first_name", "last_name", "phone").
		From("messaging.users").
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.UserSummary, 0)
	for rows.Next() {
		var summary domain.UserSummary
		if err := rows.Scan(&summary.Username, &summary.FirstName, &summary.LastName, &summary.Phone); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		users = append(users, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateLastLogin stamps last_login_at for the user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	stmt, args, err := r.builder.Update("messaging.users").
		Set("last_login_at", at).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Exists reports whether a user with the given username is registered.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("messaging.users").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build user exists sql: %w", err)
	}

	var one int
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("scan user exists: %w", err)
	}

	return true, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
