package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/topster/topster-api/internal/api/shared"
	"github.com/topster/topster-api/internal/platform/logger"
	"github.com/topster/topster-api/internal/service"
	"github.com/topster/topster-api/internal/service/auth"
)

// errNoAuthenticatedUser means a protected handler ran without the auth middleware.
var errNoAuthenticatedUser = errors.New("no authenticated user in request context")

// UserHandler handles account and profile API requests.
type UserHandler struct {
	userService   service.UserService
	socialService service.SocialLoginService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService, socialService service.SocialLoginService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		socialService: socialService,
	}
}

// SendVerificationCode handles POST /users/verification.
func (h *UserHandler) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req VerificationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	if err := h.userService.SendVerificationCode(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusAccepted, "Verification code sent", nil)
}

// SignUp handles POST /users/signup.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	result, err := h.userService.SignUp(r.Context(), service.SignUpRequest{
		Username:          req.Username,
		Password:          req.Password,
		Email:             req.Email,
		Nickname:          req.Nickname,
		Intro:             req.Intro,
		CertificationCode: req.Certification,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, "Signup completed", SignUpResponse{
		Username: result.Username,
		Nickname: result.Nickname,
	})
}

// Login handles POST /users/login. Tokens are returned in the Authorization
// and Refresh-Token response headers.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	// http.Header satisfies service.TokenSink
	err := h.userService.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}, w.Header())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Login successful", nil)
}

// RefreshToken handles POST /users/refresh. The refresh token is read from the
// Refresh-Token header, or from the JSON body when the header is absent.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := strings.TrimSpace(r.Header.Get(auth.RefreshTokenHeader))
	if refreshToken == "" {
		var req RefreshTokenRequest
		if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
			handleDecodeError(w, r, err)
			return
		}
		refreshToken = strings.TrimSpace(req.RefreshToken)
	}

	token, err := h.userService.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set(auth.AuthorizationHeader, auth.WithBearer(token))
	shared.RespondWithData(w, r, http.StatusOK, "Token refreshed", nil)
}

// SocialLogin handles GET /users/oauth/{provider}?code=...
func (h *UserHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")

	log := logger.FromContext(r.Context())
	log.Debug("social login callback received", "provider", provider, "has_code", code != "")

	result, err := h.socialService.SocialLogin(r.Context(), code, provider)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set(auth.AuthorizationHeader, auth.WithBearer(result.Token))
	shared.RespondWithData(w, r, http.StatusCreated, "Social login completed", SocialLoginResponse{
		Username: result.Username,
		Nickname: result.Nickname,
		Email:    result.Email,
	})
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, errNoAuthenticatedUser)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", toUserResponse(h.userService.GetUser(user)))
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, errNoAuthenticatedUser)
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		handleDecodeError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		handleValidationError(w, r, err)
		return
	}

	err := h.userService.UpdateUser(r.Context(), user, service.UpdateRequest{
		Nickname: req.Nickname,
		Intro:    req.Intro,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Profile updated", toUserResponse(h.userService.GetUser(user)))
}
