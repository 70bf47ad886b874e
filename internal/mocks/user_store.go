package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// By default it behaves like an in-memory store that enforces username and
// email uniqueness; the function fields override individual methods.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	UpdateFn        func(ctx context.Context, user *domain.User) error

	// Errors returned by the default implementation when set
	CreateError        error
	GetByUsernameError error
	GetByEmailError    error
	UpdateError        error

	// Call counters
	CreateCalls int
	UpdateCalls int

	mu    sync.Mutex
	users map[string]*domain.User // keyed by username
}

// NewMockUserStore creates a new mock store, optionally seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		stored := *u
		m.users[u.Username] = &stored
	}
	return m
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Username]; exists {
		return store.ErrUsernameExists
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	if m.GetByUsernameError != nil {
		return nil, m.GetByUsernameError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	if m.UpdateError != nil {
		return m.UpdateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.Username]
	if !ok {
		return store.ErrUserNotFound
	}
	existing.Nickname = user.Nickname
	existing.Intro = user.Intro
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// WithTx implements the UserStore interface. The mock shares state across transactions.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

// Count returns how many users are stored.
func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// User returns a copy of the stored user with the given username, or nil.
func (m *MockUserStore) User(username string) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil
	}
	found := *u
	return &found
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)
