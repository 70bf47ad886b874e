package middleware

import (
	"errors"
	"net/http"

	"github.com/topster/topster-api/internal/api/shared"
	"github.com/topster/topster-api/internal/platform/logger"
	"github.com/topster/topster-api/internal/service/auth"
	"github.com/topster/topster-api/internal/store"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// loads the user it names and adds that user to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.StripBearer(r.Header.Get(auth.AuthorizationHeader))
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CodeMissingToken, "Authorization header required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CodeExpiredToken, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CodeInvalidToken, "Invalid token")
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					shared.CodeInternal, "Authentication error", err)
			}
			return
		}

		user, err := m.userStore.GetByUsername(r.Context(), claims.Username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				// Valid signature, but the account is gone
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
					shared.CodeInvalidToken, "Invalid token", err, shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				shared.CodeInternal, "Authentication error", err)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("username", user.Username))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
