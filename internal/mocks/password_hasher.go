package mocks

import (
	"errors"

	"github.com/topster/topster-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing.
// The default Hash prefixes the password with "hashed:" and Compare checks that form.
type MockPasswordHasher struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// HashCalls tracks how many times Hash was called
	HashCalls int

	// CompareCalledWith stores the arguments passed to the last Compare call
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCalls++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if password == "" {
		return "", errors.New("empty password")
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	// Record call details for test verification
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if hashedPassword != "hashed:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

// Ensure MockPasswordHasher implements auth.PasswordHasher
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)
