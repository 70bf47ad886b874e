package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/platform/mail"
	"github.com/topster/topster-api/internal/service/auth"
	"github.com/topster/topster-api/internal/store"
)

const (
	// verificationCodeDigits is the length of generated verification codes.
	verificationCodeDigits = 6

	// maxVerificationAttempts is how many wrong codes an email may submit
	// before its pending code is revoked.
	maxVerificationAttempts = 5
)

// TokenSink receives response headers. http.Header satisfies it.
type TokenSink interface {
	Set(key, value string)
}

// SignUpRequest carries the fields needed to register a password account.
type SignUpRequest struct {
	Username          string
	Password          string
	Email             string
	Nickname          string
	Intro             string
	CertificationCode string
}

// SignUpResult is returned after a successful signup.
type SignUpResult struct {
	Username string
	Nickname string
}

// LoginRequest carries password login credentials.
type LoginRequest struct {
	Username string
	Password string
}

// UpdateRequest carries a profile change. Password is the current password
// and must verify before anything is changed.
type UpdateRequest struct {
	Nickname string
	Intro    string
	Password string
}

// GetUserResult is the public projection of a User.
type GetUserResult struct {
	Username string
	Email    string
	Nickname string
	Intro    string
	Role     domain.Role
}

// UserService provides account registration, authentication and profile operations.
type UserService interface {
	// SendVerificationCode generates a code for email, caches it and delivers it.
	SendVerificationCode(ctx context.Context, email string) error

	// SignUp registers a password account after checking the verification code.
	SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error)

	// Login verifies credentials and writes the session token to sink under the
	// Authorization header, plus a refresh token under Refresh-Token.
	// Nothing is written on failure.
	Login(ctx context.Context, req LoginRequest, sink TokenSink) error

	// UpdateUser applies nickname and intro to user after verifying the current password.
	UpdateUser(ctx context.Context, user *domain.User, req UpdateRequest) error

	// GetUser projects user into its public view.
	GetUser(user *domain.User) *GetUserResult

	// RefreshToken exchanges a cached refresh token for a new session token.
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore       store.UserStore
	cache           store.Cache
	hasher          auth.PasswordHasher
	tokens          auth.JWTService
	mailer          mail.Mailer
	db              store.TxBeginner
	logger          *slog.Logger
	verificationTTL time.Duration
	refreshTTL      time.Duration
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// UserServiceDeps groups the collaborators of the user service.
type UserServiceDeps struct {
	UserStore store.UserStore
	Cache     store.Cache
	Hasher    auth.PasswordHasher
	Tokens    auth.JWTService
	Mailer    mail.Mailer
	DB        store.TxBeginner
	Logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(deps UserServiceDeps, cfg config.AuthConfig) (*UserServiceImpl, error) {
	if deps.UserStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if deps.Hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("tokens cannot be nil")
	}
	if deps.Mailer == nil {
		return nil, fmt.Errorf("mailer cannot be nil")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if cfg.VerificationCodeTTLMinutes <= 0 || cfg.RefreshTokenLifetimeMinutes <= 0 {
		return nil, fmt.Errorf("verification and refresh token lifetimes must be positive")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &UserServiceImpl{
		userStore:       deps.UserStore,
		cache:           deps.Cache,
		hasher:          deps.Hasher,
		tokens:          deps.Tokens,
		mailer:          deps.Mailer,
		db:              deps.DB,
		logger:          log.With("component", "user_service"),
		verificationTTL: time.Duration(cfg.VerificationCodeTTLMinutes) * time.Minute,
		refreshTTL:      time.Duration(cfg.RefreshTokenLifetimeMinutes) * time.Minute,
	}, nil
}

// SendVerificationCode generates a numeric code, caches it under the email and mails it.
func (s *UserServiceImpl) SendVerificationCode(ctx context.Context, email string) error {
	if err := domain.ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	email = domain.NormalizeEmail(email)

	code, err := generateVerificationCode()
	if err != nil {
		s.logger.Error("failed to generate verification code", "error", err)
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	key := store.VerificationKey(email)
	if err := s.cache.Set(ctx, key, code, s.verificationTTL); err != nil {
		s.logger.Error("failed to cache verification code", "error", err, "email", email)
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		s.logger.Error("failed to deliver verification code", "error", err, "email", email)
		// An undelivered code must not stay redeemable
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to discard undelivered verification code", "error", delErr, "email", email)
		}
		return fmt.Errorf("failed to deliver verification code: %w", err)
	}

	// A fresh code gets a fresh set of attempts
	s.discardKey(ctx, store.VerificationAttemptsKey(email), "verification attempts", email)

	s.logger.Debug("verification code issued", "email", email)
	return nil
}

// SignUp registers a new password account with role USER.
func (s *UserServiceImpl) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	email := domain.NormalizeEmail(req.Email)

	if err := s.checkVerificationCode(ctx, email, req.CertificationCode); err != nil {
		return nil, err
	}

	if req.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
	}
	// Request validation counts characters; bcrypt counts bytes
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, auth.ErrPasswordTooLong)
	}

	// Fast path; the unique constraint below is what actually guarantees uniqueness
	_, err := s.userStore.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		s.logger.Debug("signup rejected: username taken", "username", req.Username)
		return nil, ErrDuplicateUsername
	case !errors.Is(err, store.ErrUserNotFound):
		s.logger.Error("failed to check username availability", "error", err, "username", req.Username)
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(req.Username, email, req.Nickname, hashed, domain.RoleUser)
	if err == nil {
		user.Intro = strings.TrimSpace(req.Intro)
		err = user.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}

	// The account is committed; leftovers only live until their TTL
	s.discardKey(ctx, store.VerificationKey(email), "consumed verification code", email)
	s.discardKey(ctx, store.VerificationAttemptsKey(email), "verification attempts", email)

	s.logger.Info("user signed up",
		"user_id", user.ID,
		"username", user.Username)

	return &SignUpResult{
		Username: user.Username,
		Nickname: user.Nickname,
	}, nil
}

// checkVerificationCode compares code with the value cached for email.
// A missing entry is treated as a mismatch.
func (s *UserServiceImpl) checkVerificationCode(ctx context.Context, email, code string) error {
	cached, err := s.cache.Get(ctx, store.VerificationKey(email))
	if err != nil {
		if errors.Is(err, store.ErrCacheMiss) {
			s.logger.Debug("signup rejected: no verification code cached")
			return ErrInvalidVerificationCode
		}
		s.logger.Error("failed to read verification code", "error", err)
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	if code == "" || subtle.ConstantTimeCompare([]byte(cached), []byte(code)) != 1 {
		s.logger.Debug("signup rejected: verification code mismatch")
		s.recordFailedAttempt(ctx, email)
		return ErrInvalidVerificationCode
	}
	return nil
}

// recordFailedAttempt counts a wrong code for email and revokes the pending
// code once maxVerificationAttempts is reached.
func (s *UserServiceImpl) recordFailedAttempt(ctx context.Context, email string) {
	attempts, err := s.cache.Increment(ctx, store.VerificationAttemptsKey(email), s.verificationTTL)
	if err != nil {
		s.logger.Warn("failed to count verification attempt", "error", err, "email", email)
		return
	}
	if attempts < maxVerificationAttempts {
		return
	}

	s.logger.Warn("verification code revoked after repeated mismatches",
		"email", email,
		"attempts", attempts)
	s.discardKey(ctx, store.VerificationKey(email), "revoked verification code", email)
	s.discardKey(ctx, store.VerificationAttemptsKey(email), "verification attempts", email)
}

// discardKey deletes a cache entry, logging instead of failing.
func (s *UserServiceImpl) discardKey(ctx context.Context, key, what, email string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to discard "+what, "error", err, "email", email)
	}
}

// createUser persists user inside a transaction and maps unique violations.
func (s *UserServiceImpl) createUser(ctx context.Context, user *domain.User) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, store.ErrUsernameExists):
		s.logger.Debug("create rejected by username constraint", "username", user.Username)
		return ErrDuplicateUsername
	case errors.Is(err, store.ErrEmailExists):
		s.logger.Debug("create rejected by email constraint", "email", user.Email)
		return ErrDuplicateEmail
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		s.logger.Error("failed to save user to database",
			"error", err,
			"username", user.Username)
		return fmt.Errorf("failed to create user: %w", err)
	}
}

// Login verifies credentials and writes the issued tokens to sink.
func (s *UserServiceImpl) Login(ctx context.Context, req LoginRequest, sink TokenSink) error {
	user, err := s.userStore.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login rejected: unknown username", "username", req.Username)
			return ErrUserNotFound
		}
		s.logger.Error("failed to load user for login", "error", err, "username", req.Username)
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("login rejected: password mismatch", "username", req.Username)
			return ErrInvalidCredentials
		}
		s.logger.Error("failed to verify password", "error", err, "username", req.Username)
		return fmt.Errorf("failed to verify password: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err, "username", user.Username)
		return fmt.Errorf("failed to issue session token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.cache.Set(ctx, store.RefreshKey(refreshToken), user.Username, s.refreshTTL); err != nil {
		s.logger.Error("failed to store refresh token", "error", err, "username", user.Username)
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	// Headers are only written once every step has succeeded
	sink.Set(auth.AuthorizationHeader, auth.WithBearer(token))
	sink.Set(auth.RefreshTokenHeader, refreshToken)

	s.logger.Info("user logged in", "username", user.Username)
	return nil
}

// UpdateUser verifies the current password, then applies and persists the profile change.
// user is only modified when the change has been stored.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, user *domain.User, req UpdateRequest) error {
	if user == nil {
		return fmt.Errorf("%w: user cannot be nil", domain.ErrValidation)
	}

	// Social accounts hold a random placeholder password nobody knows
	if user.IsSocial() {
		s.logger.Debug("profile update rejected: social account has no password",
			"username", user.Username, "provider", user.Provider)
		return ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug("profile update rejected: password mismatch", "username", user.Username)
			return ErrInvalidCredentials
		}
		s.logger.Error("failed to verify password", "error", err, "username", user.Username)
		return fmt.Errorf("failed to verify password: %w", err)
	}

	updated := *user
	if err := updated.UpdateProfile(req.Nickname, req.Intro); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.userStore.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("failed to update user profile", "error", err, "username", user.Username)
		return fmt.Errorf("failed to update user: %w", err)
	}

	*user = updated
	s.logger.Info("user profile updated", "username", user.Username)
	return nil
}

// GetUser projects user into its public view.
func (s *UserServiceImpl) GetUser(user *domain.User) *GetUserResult {
	if user == nil {
		return nil
	}
	return &GetUserResult{
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
		Intro:    user.Intro,
		Role:     user.Role,
	}
}

// RefreshToken resolves the username cached for refreshToken and issues a new session token.
func (s *UserServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}

	username, err := s.cache.Get(ctx, store.RefreshKey(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrCacheMiss) {
			s.logger.Debug("refresh rejected: unknown or expired refresh token")
			return "", ErrInvalidRefreshToken
		}
		s.logger.Error("failed to read refresh token", "error", err)
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("refresh rejected: user no longer exists", "username", username)
			return "", ErrUserNotFound
		}
		s.logger.Error("failed to load user for refresh", "error", err, "username", username)
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err, "username", user.Username)
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Debug("session token refreshed", "username", user.Username)
	return token, nil
}

// generateVerificationCode returns a zero-padded random decimal code.
func generateVerificationCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < verificationCodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", verificationCodeDigits, n.Int64()), nil
}
