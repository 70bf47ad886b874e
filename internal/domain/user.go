package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooLong     = errors.New("username must be at most 64 characters long")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyNickname       = errors.New("nickname cannot be empty")
	ErrNicknameTooLong     = errors.New("nickname must be at most 50 characters long")
	ErrIntroTooLong        = errors.New("intro must be at most 500 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	maxUsernameLength = 64
	maxNicknameLength = 50
	maxIntroLength    = 500
)

var emailValidator = validator.New()

// User represents a registered account. Username is immutable once created.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Nickname       string    `json:"nickname"`
	Intro          string    `json:"intro,omitempty"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	// Provider is empty for password accounts and holds the provider id
	// (e.g. "google") for accounts provisioned through social login.
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// The password must already be hashed by the caller.
// Returns an error if validation fails.
func NewUser(username, email, nickname, hashedPassword string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		Email:          NormalizeEmail(email),
		Nickname:       strings.TrimSpace(nickname),
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if emailValidator.Var(u.Email, "email") != nil {
		return ErrInvalidEmail
	}
	if u.Nickname == "" {
		return ErrEmptyNickname
	}
	if len([]rune(u.Nickname)) > maxNicknameLength {
		return ErrNicknameTooLong
	}
	if len([]rune(u.Intro)) > maxIntroLength {
		return ErrIntroTooLong
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// UpdateProfile applies nickname and intro changes. An empty nickname keeps
// the current one; intro is always replaced so it can be cleared.
func (u *User) UpdateProfile(nickname, intro string) error {
	updated := *u
	if n := strings.TrimSpace(nickname); n != "" {
		updated.Nickname = n
	}
	updated.Intro = strings.TrimSpace(intro)

	if err := updated.Validate(); err != nil {
		return err
	}

	u.Nickname = updated.Nickname
	u.Intro = updated.Intro
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// IsSocial reports whether the account was provisioned by an OAuth provider.
func (u *User) IsSocial() bool {
	return u.Provider != ""
}

// NormalizeEmail lowercases and trims an address so lookups and the store's
// unique constraint agree on identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a syntactically valid address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if emailValidator.Var(NormalizeEmail(email), "email") != nil {
		return ErrInvalidEmail
	}
	return nil
}
