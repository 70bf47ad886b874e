package auth

import (
	"context"
	"strings"
	"time"

	"github.com/topster/topster-api/internal/domain"
)

// Header names and prefixes used to carry tokens over HTTP.
const (
	AuthorizationHeader = "Authorization"
	RefreshTokenHeader  = "Refresh-Token"
	BearerPrefix        = "Bearer "
)

// JWTService defines operations for issuing and validating session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token carrying the username and role.
	GenerateToken(ctx context.Context, username string, role domain.Role) (string, error)

	// ValidateToken verifies the signature and time claims of a session token
	// and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime returns how long issued tokens stay valid.
	TokenLifetime() time.Duration
}

// Claims is the decoded content of a session token.
type Claims struct {
	Username  string      `json:"sub"`
	Role      domain.Role `json:"auth"`
	IssuedAt  time.Time   `json:"iat"`
	ExpiresAt time.Time   `json:"exp"`
	ID        string      `json:"jti"`
}

// WithBearer prefixes a token for use as an Authorization header value.
func WithBearer(token string) string {
	return BearerPrefix + token
}

// StripBearer extracts the token from an Authorization header value.
// It returns ErrMissingToken when the value is empty or not a bearer credential.
func StripBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) <= len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
