package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/mocks"
	"github.com/topster/topster-api/internal/platform/logger"
	"github.com/topster/topster-api/internal/service"
	"github.com/topster/topster-api/internal/service/auth"
	"github.com/topster/topster-api/internal/store"
)

var testAuthConfig = config.AuthConfig{
	VerificationCodeTTLMinutes:  5,
	RefreshTokenLifetimeMinutes: 20160,
}

// userServiceFixture bundles the service under test with its collaborators.
type userServiceFixture struct {
	svc    *service.UserServiceImpl
	store  *mocks.MockUserStore
	cache  *mocks.MockCache
	hasher *mocks.MockPasswordHasher
	tokens *mocks.MockJWTService
	mailer *mocks.MockMailer
	sql    sqlmock.Sqlmock
}

func newUserServiceFixture(t *testing.T, users ...*domain.User) *userServiceFixture {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		_ = db.Close()
	})

	log, _ := logger.NewTestLogger(t)
	f := &userServiceFixture{
		store:  mocks.NewMockUserStore(users...),
		cache:  mocks.NewMockCache(),
		hasher: &mocks.MockPasswordHasher{},
		tokens: &mocks.MockJWTService{Token: "session-token"},
		mailer: &mocks.MockMailer{},
		sql:    sqlMock,
	}

	f.svc, err = service.NewUserService(service.UserServiceDeps{
		UserStore: f.store,
		Cache:     f.cache,
		Hasher:    f.hasher,
		Tokens:    f.tokens,
		Mailer:    f.mailer,
		DB:        db,
		Logger:    log,
	}, testAuthConfig)
	require.NoError(t, err)
	return f
}

// newStoredUser creates a user whose password under MockPasswordHasher is password.
func newStoredUser(t *testing.T, username, email, password string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, email, "nick-"+username, "hashed:"+password, domain.RoleUser)
	require.NoError(t, err)
	return u
}

// recordingSink captures every header written by Login.
type recordingSink struct {
	calls  []string
	header http.Header
}

func newRecordingSink() *recordingSink {
	return &recordingSink{header: http.Header{}}
}

func (s *recordingSink) Set(key, value string) {
	s.calls = append(s.calls, key)
	s.header.Set(key, value)
}

func (s *recordingSink) count(key string) int {
	n := 0
	for _, k := range s.calls {
		if k == key {
			n++
		}
	}
	return n
}

func TestNewUserService_RequiresCollaborators(t *testing.T) {
	_, err := service.NewUserService(service.UserServiceDeps{}, testAuthConfig)
	assert.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	deps := service.UserServiceDeps{
		UserStore: mocks.NewMockUserStore(),
		Cache:     mocks.NewMockCache(),
		Hasher:    &mocks.MockPasswordHasher{},
		Tokens:    &mocks.MockJWTService{},
		Mailer:    &mocks.MockMailer{},
		DB:        db,
	}
	_, err = service.NewUserService(deps, config.AuthConfig{})
	assert.Error(t, err, "zero lifetimes should be rejected")

	_, err = service.NewUserService(deps, testAuthConfig)
	assert.NoError(t, err)
}

func TestSendVerificationCode(t *testing.T) {
	t.Run("caches and mails a six digit code", func(t *testing.T) {
		f := newUserServiceFixture(t)

		err := f.svc.SendVerificationCode(context.Background(), " U1@X.com ")
		require.NoError(t, err)

		code, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		require.True(t, ok)
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
		assert.Equal(t, 5*time.Minute, f.cache.TTL(store.VerificationKey("u1@x.com")))

		sent := f.mailer.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, mocks.SentCode{Email: "u1@x.com", Code: code}, sent[0])
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		f := newUserServiceFixture(t)

		err := f.svc.SendVerificationCode(context.Background(), "not-an-email")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Empty(t, f.cache.Keys())
		assert.Empty(t, f.mailer.Sent())
	})

	t.Run("discards code when delivery fails", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.mailer.Err = errors.New("smtp down")

		err := f.svc.SendVerificationCode(context.Background(), "u1@x.com")
		require.Error(t, err)
		_, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.False(t, ok)
	})

	t.Run("new code resets failed attempts", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationAttemptsKey("u1@x.com"), "4")

		require.NoError(t, f.svc.SendVerificationCode(context.Background(), "u1@x.com"))

		_, ok := f.cache.Value(store.VerificationAttemptsKey("u1@x.com"))
		assert.False(t, ok)
		_, ok = f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.True(t, ok)
	})

	t.Run("cache failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.SetError = errors.New("redis down")

		err := f.svc.SendVerificationCode(context.Background(), "u1@x.com")
		require.Error(t, err)
		assert.Empty(t, f.mailer.Sent())
	})
}

func TestSignUp(t *testing.T) {
	validRequest := service.SignUpRequest{
		Username:          "u1",
		Password:          "p1",
		Email:             "u1@x.com",
		Nickname:          "n1",
		Intro:             "hello",
		CertificationCode: "123",
	}

	t.Run("matching code creates user", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()

		result, err := f.svc.SignUp(context.Background(), validRequest)
		require.NoError(t, err)
		assert.Equal(t, &service.SignUpResult{Username: "u1", Nickname: "n1"}, result)

		// Exactly one user with role USER and a hashed password
		assert.Equal(t, 1, f.store.Count())
		created := f.store.User("u1")
		require.NotNil(t, created)
		assert.Equal(t, domain.RoleUser, created.Role)
		assert.Equal(t, "hashed:p1", created.HashedPassword)
		assert.Equal(t, "u1@x.com", created.Email)
		assert.Equal(t, "hello", created.Intro)
		assert.Empty(t, created.Provider)

		// The verification code is consumed
		_, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.False(t, ok)
		assert.Contains(t, f.cache.Deleted(), store.VerificationAttemptsKey("u1@x.com"))
	})

	t.Run("mismatched code", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "999")

		result, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		assert.Nil(t, result)
		assert.Equal(t, 0, f.store.Count())
		assert.Equal(t, 0, f.hasher.HashCalls)

		// A failed attempt does not consume the code
		code, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.True(t, ok)
		assert.Equal(t, "999", code)
	})

	t.Run("repeated mismatches revoke the code", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "999")

		wrong := validRequest
		wrong.CertificationCode = "000"
		for i := 0; i < 4; i++ {
			_, err := f.svc.SignUp(context.Background(), wrong)
			require.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		}
		attempts, ok := f.cache.Value(store.VerificationAttemptsKey("u1@x.com"))
		require.True(t, ok)
		assert.Equal(t, "4", attempts)
		assert.Equal(t, 5*time.Minute, f.cache.TTL(store.VerificationAttemptsKey("u1@x.com")))
		_, ok = f.cache.Value(store.VerificationKey("u1@x.com"))
		require.True(t, ok, "code survives until the limit")

		_, err := f.svc.SignUp(context.Background(), wrong)
		require.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		_, ok = f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.False(t, ok, "code revoked at the limit")
		_, ok = f.cache.Value(store.VerificationAttemptsKey("u1@x.com"))
		assert.False(t, ok)

		// The right code no longer works
		right := validRequest
		right.CertificationCode = "999"
		_, err = f.svc.SignUp(context.Background(), right)
		assert.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		assert.Equal(t, 0, f.store.Count())
		assert.Equal(t, 0, f.hasher.HashCalls)
	})

	t.Run("attempt counter failure still rejects", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "999")
		f.cache.IncrementError = errors.New("redis down")

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		_, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.True(t, ok)
	})

	t.Run("no cached code", func(t *testing.T) {
		f := newUserServiceFixture(t)

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrInvalidVerificationCode)
		assert.Equal(t, 0, f.store.Count())
	})

	t.Run("empty code never matches", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "")

		req := validRequest
		req.CertificationCode = ""
		_, err := f.svc.SignUp(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrInvalidVerificationCode)
	})

	t.Run("email is normalized before the code lookup", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()

		req := validRequest
		req.Email = "U1@X.COM"
		_, err := f.svc.SignUp(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "u1@x.com", f.store.User("u1").Email)
	})

	t.Run("cache read failure is not a code mismatch", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.GetError = errors.New("redis down")

		_, err := f.svc.SignUp(context.Background(), validRequest)
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrInvalidVerificationCode)
	})

	t.Run("existing username", func(t *testing.T) {
		f := newUserServiceFixture(t, newStoredUser(t, "u1", "other@x.com", "secret"))
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrDuplicateUsername)
		assert.Equal(t, 1, f.store.Count())
		assert.Equal(t, 0, f.store.CreateCalls)
	})

	t.Run("concurrent signup loses at the username constraint", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.store.CreateError = store.ErrUsernameExists
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrDuplicateUsername)

		// The code survives so the caller can retry with another username
		_, ok := f.cache.Value(store.VerificationKey("u1@x.com"))
		assert.True(t, ok)
	})

	t.Run("email already registered", func(t *testing.T) {
		f := newUserServiceFixture(t, newStoredUser(t, "someone", "u1@x.com", "secret"))
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, service.ErrDuplicateEmail)
		assert.Equal(t, 1, f.store.Count())
	})

	t.Run("invalid nickname", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")

		req := validRequest
		req.Nickname = strings.Repeat("n", 51)
		_, err := f.svc.SignUp(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, domain.ErrNicknameTooLong)
		assert.Equal(t, 0, f.store.Count())
	})

	t.Run("empty password", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")

		req := validRequest
		req.Password = ""
		_, err := f.svc.SignUp(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("multi-byte password over the bcrypt limit", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")

		req := validRequest
		req.Password = strings.Repeat("비", 30)
		_, err := f.svc.SignUp(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
		assert.Equal(t, 0, f.hasher.HashCalls)
		assert.Equal(t, 0, f.store.Count())
	})

	t.Run("hasher length rejection is a validation error", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.hasher.HashFn = func(string) (string, error) {
			return "", fmt.Errorf("%w: bcrypt", auth.ErrPasswordTooLong)
		}

		_, err := f.svc.SignUp(context.Background(), validRequest)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	})

	t.Run("unexpected store failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.VerificationKey("u1@x.com"), "123")
		f.store.CreateError = errors.New("connection reset")
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.SignUp(context.Background(), validRequest)
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrDuplicateUsername)
		assert.NotErrorIs(t, err, service.ErrDuplicateEmail)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials set the authorization header once", func(t *testing.T) {
		f := newUserServiceFixture(t, newStoredUser(t, "u1", "u1@x.com", "p1"))
		sink := newRecordingSink()

		err := f.svc.Login(context.Background(), service.LoginRequest{Username: "u1", Password: "p1"}, sink)
		require.NoError(t, err)

		assert.Equal(t, 1, sink.count(auth.AuthorizationHeader))
		assert.Equal(t, "Bearer session-token", sink.header.Get(auth.AuthorizationHeader))
		assert.Equal(t, []string{"u1"}, f.tokens.GenerateCalls)

		// The refresh token maps back to the username
		refreshToken := sink.header.Get(auth.RefreshTokenHeader)
		require.NotEmpty(t, refreshToken)
		username, ok := f.cache.Value(store.RefreshKey(refreshToken))
		require.True(t, ok)
		assert.Equal(t, "u1", username)
		assert.Equal(t, 14*24*time.Hour, f.cache.TTL(store.RefreshKey(refreshToken)))
	})

	t.Run("role is carried into the token", func(t *testing.T) {
		admin, err := domain.NewUser("boss", "boss@x.com", "Boss", "hashed:p1", domain.RoleAdmin)
		require.NoError(t, err)
		f := newUserServiceFixture(t, admin)

		var issuedRole domain.Role
		f.tokens.GenerateTokenFn = func(ctx context.Context, username string, role domain.Role) (string, error) {
			issuedRole = role
			return "admin-token", nil
		}

		err = f.svc.Login(context.Background(), service.LoginRequest{Username: "boss", Password: "p1"}, newRecordingSink())
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, issuedRole)
	})

	tests := []struct {
		name    string
		req     service.LoginRequest
		setup   func(f *userServiceFixture)
		wantErr error
	}{
		{
			name:    "wrong password",
			req:     service.LoginRequest{Username: "u1", Password: "wrong"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "unknown user",
			req:     service.LoginRequest{Username: "ghost", Password: "p1"},
			wantErr: service.ErrUserNotFound,
		},
		{
			name: "token issuance failure",
			req:  service.LoginRequest{Username: "u1", Password: "p1"},
			setup: func(f *userServiceFixture) {
				f.tokens.Err = errors.New("signing failed")
			},
		},
		{
			name: "refresh token storage failure",
			req:  service.LoginRequest{Username: "u1", Password: "p1"},
			setup: func(f *userServiceFixture) {
				f.cache.SetError = errors.New("redis down")
			},
		},
		{
			name: "hasher failure is not a credential error",
			req:  service.LoginRequest{Username: "u1", Password: "p1"},
			setup: func(f *userServiceFixture) {
				f.hasher.CompareFn = func(string, string) error { return errors.New("corrupt hash") }
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newUserServiceFixture(t, newStoredUser(t, "u1", "u1@x.com", "p1"))
			if tc.setup != nil {
				tc.setup(f)
			}
			sink := newRecordingSink()

			err := f.svc.Login(context.Background(), tc.req, sink)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
			}

			// No header on any failure
			assert.Empty(t, sink.calls)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	t.Run("same update twice is idempotent", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t, user)
		req := service.UpdateRequest{Nickname: "new-nick", Intro: "hello", Password: "p1"}

		require.NoError(t, f.svc.UpdateUser(context.Background(), user, req))
		first := *f.store.User("u1")

		require.NoError(t, f.svc.UpdateUser(context.Background(), user, req))
		second := *f.store.User("u1")

		assert.Equal(t, "new-nick", user.Nickname)
		assert.Equal(t, "hello", user.Intro)
		assert.Equal(t, first.Nickname, second.Nickname)
		assert.Equal(t, first.Intro, second.Intro)
		assert.Equal(t, 2, f.store.UpdateCalls)
	})

	t.Run("blank nickname keeps the current one", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t, user)

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{Intro: "bio", Password: "p1"})
		require.NoError(t, err)
		assert.Equal(t, "nick-u1", user.Nickname)
		assert.Equal(t, "bio", f.store.User("u1").Intro)
	})

	t.Run("wrong password changes nothing", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t, user)

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{Nickname: "x", Password: "wrong"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Equal(t, "nick-u1", user.Nickname)
		assert.Equal(t, 0, f.store.UpdateCalls)
	})

	t.Run("social account cannot confirm with a password", func(t *testing.T) {
		user := newStoredUser(t, "google-1", "g@x.com", "placeholder")
		user.Provider = "google"
		f := newUserServiceFixture(t, user)

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{Nickname: "x", Password: "placeholder"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.Equal(t, 0, f.hasher.CompareCallCount)
		assert.Equal(t, 0, f.store.UpdateCalls)
		assert.Equal(t, "nick-google-1", user.Nickname)
	})

	t.Run("store failure leaves the instance untouched", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t, user)
		f.store.UpdateError = errors.New("connection reset")

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{Nickname: "x", Password: "p1"})
		require.Error(t, err)
		assert.Equal(t, "nick-u1", user.Nickname)
	})

	t.Run("vanished user", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t)

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{Nickname: "x", Password: "p1"})
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("intro too long", func(t *testing.T) {
		user := newStoredUser(t, "u1", "u1@x.com", "p1")
		f := newUserServiceFixture(t, user)

		err := f.svc.UpdateUser(context.Background(), user, service.UpdateRequest{
			Intro:    strings.Repeat("i", 501),
			Password: "p1",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, 0, f.store.UpdateCalls)
	})
}

func TestGetUser(t *testing.T) {
	f := newUserServiceFixture(t)
	user := newStoredUser(t, "u1", "u1@x.com", "p1")
	user.Intro = "hi"

	result := f.svc.GetUser(user)
	assert.Equal(t, &service.GetUserResult{
		Username: "u1",
		Email:    "u1@x.com",
		Nickname: "nick-u1",
		Intro:    "hi",
		Role:     domain.RoleUser,
	}, result)

	assert.Nil(t, f.svc.GetUser(nil))
}

func TestRefreshToken(t *testing.T) {
	t.Run("issues a token for the cached username", func(t *testing.T) {
		f := newUserServiceFixture(t, newStoredUser(t, "u1", "u1@x.com", "p1"))
		f.cache.Put(store.RefreshKey("rt-1"), "u1")
		f.tokens.GenerateTokenFn = func(ctx context.Context, username string, role domain.Role) (string, error) {
			return "token-for-" + username, nil
		}

		token, err := f.svc.RefreshToken(context.Background(), "rt-1")
		require.NoError(t, err)
		assert.Equal(t, "token-for-u1", token)
		assert.Equal(t, []string{"u1"}, f.tokens.GenerateCalls)
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		_, err := f.svc.RefreshToken(context.Background(), "rt-unknown")
		assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
	})

	t.Run("empty refresh token", func(t *testing.T) {
		f := newUserServiceFixture(t)

		_, err := f.svc.RefreshToken(context.Background(), "")
		assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.Put(store.RefreshKey("rt-1"), "ghost")

		_, err := f.svc.RefreshToken(context.Background(), "rt-1")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
		assert.Empty(t, f.tokens.GenerateCalls)
	})

	t.Run("cache failure", func(t *testing.T) {
		f := newUserServiceFixture(t)
		f.cache.GetError = errors.New("redis down")

		_, err := f.svc.RefreshToken(context.Background(), "rt-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrInvalidRefreshToken)
	})
}
