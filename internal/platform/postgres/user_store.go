package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/platform/logger"
	"github.com/topster/topster-api/internal/store"
)

const userColumns = `id, username, email, nickname, intro, hashed_password, role, provider, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db: tx,
	}
}

// Create implements store.UserStore.Create.
// The insert relies on the users_username_key and users_email_key constraints
// rather than a prior existence check.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID,
		user.Username,
		user.Email,
		user.Nickname,
		user.Intro,
		user.HashedPassword,
		string(user.Role),
		user.Provider,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := mapUserConflict(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("user create rejected by unique constraint",
				slog.String("username", user.Username))
		} else {
			log.Error("failed to insert user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
	return scanUser(ctx, row, "username")
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		domain.NormalizeEmail(email),
	)
	return scanUser(ctx, row, "email")
}

// Update implements store.UserStore.Update.
// Only the profile fields are written; username, email and role are immutable here.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET nickname = $1, intro = $2, updated_at = $3 WHERE id = $4`,
		user.Nickname,
		user.Intro,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrUserNotFound
		}
		return err
	}

	return nil
}

func scanUser(ctx context.Context, row *sql.Row, lookup string) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Nickname,
		&user.Intro,
		&user.HashedPassword,
		&role,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContext(ctx).Error("failed to load user",
			slog.String("error", err.Error()),
			slog.String("lookup", lookup))
		return nil, MapError(err)
	}

	user.Role, err = domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	return &user, nil
}
