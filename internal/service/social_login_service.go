package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/platform/oauth"
	"github.com/topster/topster-api/internal/service/auth"
	"github.com/topster/topster-api/internal/store"
)

// OAuthClient exchanges authorization codes and fetches provider profiles.
// *oauth.Client satisfies it.
type OAuthClient interface {
	HasProvider(providerID string) bool
	Exchange(ctx context.Context, providerID, code string) (string, error)
	FetchProfile(ctx context.Context, providerID, accessToken string) (*oauth.Profile, error)
}

// SocialLoginResult describes the account provisioned by a social login.
type SocialLoginResult struct {
	Username string
	Nickname string
	Email    string
	// Token is a session token for the new account.
	Token string
}

// SocialLoginService provisions accounts from OAuth2 provider identities.
type SocialLoginService interface {
	// SocialLogin exchanges code with providerID, reads the profile and creates
	// a USER account for it. An existing account with the same email is
	// rejected with ErrDuplicateEmail.
	SocialLogin(ctx context.Context, code, providerID string) (*SocialLoginResult, error)
}

// socialLoginServiceImpl implements the SocialLoginService interface
type socialLoginServiceImpl struct {
	oauthClient OAuthClient
	userStore   store.UserStore
	hasher      auth.PasswordHasher
	tokens      auth.JWTService
	db          store.TxBeginner
	logger      *slog.Logger
}

// Ensure socialLoginServiceImpl implements SocialLoginService interface
var _ SocialLoginService = (*socialLoginServiceImpl)(nil)

// NewSocialLoginService creates a new SocialLoginService
func NewSocialLoginService(
	oauthClient OAuthClient,
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	db store.TxBeginner,
	logger *slog.Logger,
) (SocialLoginService, error) {
	if oauthClient == nil {
		return nil, fmt.Errorf("oauthClient cannot be nil")
	}
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("tokens cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &socialLoginServiceImpl{
		oauthClient: oauthClient,
		userStore:   userStore,
		hasher:      hasher,
		tokens:      tokens,
		db:          db,
		logger:      logger.With("component", "social_login_service"),
	}, nil
}

// SocialLogin implements SocialLoginService.
func (s *socialLoginServiceImpl) SocialLogin(
	ctx context.Context,
	code, providerID string,
) (*SocialLoginResult, error) {
	log := s.logger.With("provider", providerID)

	if !s.oauthClient.HasProvider(providerID) {
		log.Debug("social login rejected: provider not configured")
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code is required", domain.ErrValidation)
	}

	accessToken, err := s.oauthClient.Exchange(ctx, providerID, code)
	if err != nil {
		return nil, s.providerFailure(log, providerID, err)
	}

	profile, err := s.oauthClient.FetchProfile(ctx, providerID, accessToken)
	if err != nil {
		return nil, s.providerFailure(log, providerID, err)
	}

	// Social accounts never log in with a password, but the column is required
	hashed, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		log.Error("failed to hash placeholder password", "error", err)
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	email := domain.NormalizeEmail(profile.Email)
	_, err = s.userStore.GetByEmail(ctx, email)
	switch {
	case err == nil:
		log.Debug("social login rejected: email already registered", "email", email)
		return nil, ErrDuplicateEmail
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to look up user by email", "error", err, "email", email)
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	user, err := domain.NewUser(profile.ID, email, profile.Name, hashed, domain.RoleUser)
	if err != nil {
		log.Warn("provider profile cannot form a valid account", "error", err)
		return nil, &ProviderError{
			Provider: providerID,
			Op:       oauth.OpFetchProfile,
			Err:      fmt.Errorf("%w: %w", ErrMalformedProviderResponse, err),
		}
	}
	user.Provider = providerID

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			log.Debug("social login rejected by email constraint", "email", email)
			return nil, ErrDuplicateEmail
		case errors.Is(err, store.ErrUsernameExists):
			log.Debug("social login rejected by username constraint", "username", user.Username)
			return nil, ErrDuplicateUsername
		default:
			log.Error("failed to save social user", "error", err, "username", user.Username)
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	token, err := s.tokens.GenerateToken(ctx, user.Username, user.Role)
	if err != nil {
		log.Error("failed to issue session token", "error", err, "username", user.Username)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	log.Info("social user provisioned",
		"user_id", user.ID,
		"username", user.Username)

	return &SocialLoginResult{
		Username: user.Username,
		Nickname: user.Nickname,
		Email:    user.Email,
		Token:    token,
	}, nil
}

// providerFailure converts an OAuth client error into the service taxonomy.
func (s *socialLoginServiceImpl) providerFailure(log *slog.Logger, providerID string, err error) error {
	if errors.Is(err, oauth.ErrUnknownProvider) {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}

	kind := ErrOAuthExchangeFailed
	if errors.Is(err, oauth.ErrMalformedProfile) {
		kind = ErrMalformedProviderResponse
	}

	provErr := &ProviderError{
		Provider:  providerID,
		Retryable: oauth.IsTransient(err),
		Err:       fmt.Errorf("%w: %w", kind, err),
	}
	var reqErr *oauth.RequestError
	if errors.As(err, &reqErr) {
		provErr.Op = reqErr.Op
	}

	log.Warn("social login failed at provider",
		"error", err,
		"op", provErr.Op,
		"retryable", provErr.Retryable)
	return provErr
}
