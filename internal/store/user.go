package store

import (
	"context"
	"database/sql"

	"github.com/topster/topster-api/internal/domain"
)

// UserStore defines the interface for user data persistence (the Credential Store).
type UserStore interface {
	// Create saves a new user. Uniqueness of username and email is enforced by
	// the store itself so that concurrent creates cannot both succeed.
	// Returns ErrUsernameExists or ErrEmailExists on conflict.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by (normalized) email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the mutable profile fields (nickname, intro) of an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a UserStore bound to the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
