package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Provider failures are wrapped in *ProviderError so callers can tell transient from permanent
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrDuplicateUsername indicates the requested username is already taken.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail indicates an account with the email already exists.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials indicates a password did not verify against the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates no account exists for the given username.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidVerificationCode indicates the supplied code does not match the
	// cached one, or no code is cached for the email.
	ErrInvalidVerificationCode = errors.New("invalid verification code")

	// ErrInvalidRefreshToken indicates the refresh token is unknown or expired.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrOAuthExchangeFailed indicates the provider rejected or failed a token
	// exchange or profile request.
	ErrOAuthExchangeFailed = errors.New("oauth exchange failed")

	// ErrMalformedProviderResponse indicates the provider profile lacked a
	// required field or had the wrong shape.
	ErrMalformedProviderResponse = errors.New("malformed provider response")

	// ErrUnknownProvider indicates no registration exists for the requested provider.
	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// ProviderError wraps a failed interaction with an OAuth provider.
// Err always wraps ErrOAuthExchangeFailed or ErrMalformedProviderResponse.
type ProviderError struct {
	Provider  string
	Op        string
	Retryable bool
	Err       error
}

// Error implements the error interface for ProviderError.
func (e *ProviderError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("provider %s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transient provider failure. Business
// rule errors such as ErrDuplicateUsername are never retryable.
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return false
}
