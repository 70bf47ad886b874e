package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/topster/topster-api/internal/api/shared"
	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/service"
	"github.com/topster/topster-api/internal/service/auth"
)

// retryAfterSeconds is advertised on transient provider failures.
const retryAfterSeconds = "5"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Conflict errors
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrUnknownProvider):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrInvalidVerificationCode),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Provider errors
	case errors.Is(err, service.ErrOAuthExchangeFailed),
		errors.Is(err, service.ErrMalformedProviderResponse):
		if service.IsRetryable(err) {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the stable envelope code for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return shared.CodeDuplicateUsername
	case errors.Is(err, service.ErrDuplicateEmail):
		return shared.CodeDuplicateEmail
	case errors.Is(err, service.ErrUserNotFound):
		return shared.CodeUserNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		return shared.CodeInvalidCredentials
	case errors.Is(err, service.ErrInvalidVerificationCode):
		return shared.CodeInvalidVerificationCode
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return shared.CodeInvalidRefreshToken
	case errors.Is(err, auth.ErrMissingToken):
		return shared.CodeMissingToken
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.CodeExpiredToken
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return shared.CodeInvalidToken
	case errors.Is(err, service.ErrMalformedProviderResponse):
		return shared.CodeMalformedProviderResponse
	case errors.Is(err, service.ErrOAuthExchangeFailed):
		return shared.CodeOAuthExchangeFailed
	case errors.Is(err, service.ErrUnknownProvider):
		return shared.CodeUnknownProvider
	case errors.Is(err, shared.ErrEmptyBody):
		return shared.CodeInvalidRequest
	case errors.Is(err, domain.ErrValidation):
		return shared.CodeValidation
	default:
		return shared.CodeInternal
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		return "Username already exists"
	case errors.Is(err, service.ErrDuplicateEmail):
		return "Email already exists"
	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrInvalidVerificationCode):
		return "Invalid verification code"
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"
	case errors.Is(err, service.ErrMalformedProviderResponse):
		return "Login provider returned an unusable profile"
	case errors.Is(err, service.ErrOAuthExchangeFailed):
		if service.IsRetryable(err) {
			return "Login provider is temporarily unavailable"
		}
		return "Login with provider failed"
	case errors.Is(err, service.ErrUnknownProvider):
		return "Unknown login provider"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	default:
		return "An unexpected error occurred"
	}
}

// validationMessage exposes the domain rule that failed, which is safe to show.
func validationMessage(err error) string {
	for _, domainErr := range []error{
		domain.ErrEmptyUsername,
		domain.ErrUsernameTooLong,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrEmptyNickname,
		domain.ErrNicknameTooLong,
		domain.ErrIntroTooLong,
		auth.ErrPasswordTooLong,
	} {
		if errors.Is(err, domainErr) {
			msg := domainErr.Error()
			return strings.ToUpper(msg[:1]) + msg[1:]
		}
	}
	return "Validation error"
}

// SanitizeValidationError turns validator errors into a user-friendly message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status, code and safe message for err and logs the details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, ErrorCode(err), GetSafeErrorMessage(err), err, opts...)
}

// handleDecodeError responds to a body that could not be decoded.
func handleDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shared.ErrEmptyBody) {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.CodeInvalidRequest, "Invalid request format", err)
}

// handleValidationError responds to a request that failed struct validation.
func handleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, shared.CodeValidation, SanitizeValidationError(err), err)
}
