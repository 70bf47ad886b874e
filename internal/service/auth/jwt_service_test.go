package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/domain"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

// newTestJWTService creates a service whose clock is pinned to now.
func newTestJWTService(t *testing.T, secret string, lifetimeMinutes int, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: lifetimeMinutes,
	}, func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
		assert.Error(t, err)
	})

	t.Run("exposes token lifetime", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 30})
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, svc.TokenLifetime())
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	// Setup
	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, testSecret, 60, fixedTime)

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), "u1", domain.RoleUser)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		// Verify claims
		assert.Equal(t, "u1", claims.Username)
		assert.Equal(t, domain.RoleUser, claims.Role)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(60*time.Minute).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("each token has a unique id", func(t *testing.T) {
		t.Parallel()
		first, err := svc.GenerateToken(context.Background(), "u1", domain.RoleUser)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), "u1", domain.RoleUser)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GenerateToken(context.Background(), "", domain.RoleUser)
		assert.Error(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GenerateToken(context.Background(), "u1", domain.Role("ROOT"))
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newTestJWTService(t, testSecret, 60, fixedTime)
				token, err := svc.GenerateToken(context.Background(), "u1", domain.RoleAdmin)
				require.NoError(t, err)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(t, testSecret, 60, fixedTime)
				token, err := genSvc.GenerateToken(context.Background(), "u1", domain.RoleUser)
				require.NoError(t, err)
				// Validate two hours later, beyond lifetime plus leeway
				return newTestJWTService(t, testSecret, 60, fixedTime.Add(2*time.Hour)), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "token issued in the future",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(t, testSecret, 60, fixedTime.Add(30*time.Minute))
				token, err := genSvc.GenerateToken(context.Background(), "u1", domain.RoleUser)
				require.NoError(t, err)
				return newTestJWTService(t, testSecret, 60, fixedTime), token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong signing key",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newTestJWTService(t, wrongSecret, 60, fixedTime)
				token, err := genSvc.GenerateToken(context.Background(), "u1", domain.RoleUser)
				require.NoError(t, err)
				return newTestJWTService(t, testSecret, 60, fixedTime), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newTestJWTService(t, testSecret, 60, fixedTime), "not.a.jwt"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unexpected signing method",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwtCustomClaims{
					Role: "USER",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "u1",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
				signed, err := token.SignedString([]byte(testSecret))
				require.NoError(t, err)
				return newTestJWTService(t, testSecret, 60, fixedTime), signed
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unknown role claim",
			setupFunc: func(t *testing.T) (JWTService, string) {
				claims := jwtCustomClaims{
					Role: "ROOT",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "u1",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
				signed, err := token.SignedString([]byte(testSecret))
				require.NoError(t, err)
				return newTestJWTService(t, testSecret, 60, fixedTime), signed
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tc.setupFunc(t)

			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", claims.Username)
		})
	}
}

func TestBearerHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bearer abc", WithBearer("abc"))

	token, err := StripBearer("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = StripBearer("bearer  xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, err := StripBearer(header)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}
