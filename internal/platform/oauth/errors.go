package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrUnknownProvider is returned when no registration exists for a provider id.
	ErrUnknownProvider = errors.New("unknown oauth provider")

	// ErrExchangeFailed covers every failed round trip to a provider: transport
	// errors, error statuses and token responses without an access token.
	ErrExchangeFailed = errors.New("oauth provider request failed")

	// ErrMalformedProfile is returned when the profile resource cannot be
	// decoded into a Profile or is missing required fields.
	ErrMalformedProfile = errors.New("malformed provider profile")
)

// Operations reported in RequestError.Op.
const (
	OpExchange     = "exchange"
	OpFetchProfile = "fetch_profile"
)

// RequestError describes a failed call to a provider endpoint.
type RequestError struct {
	Provider   string
	Op         string
	StatusCode int  // zero when no response was received
	Transient  bool // the provider may succeed if the call is repeated
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("oauth %s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("oauth %s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a provider failure worth retrying later.
func IsTransient(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Transient
	}
	return false
}

// transientStatus reports whether an HTTP status indicates provider unavailability.
func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// transientTransport reports whether a transport-level error is worth retrying.
// Caller cancellation is not.
func transientTransport(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
