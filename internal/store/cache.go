package store

import (
	"context"
	"time"
)

// Cache is the ephemeral key-value store used for verification codes and
// refresh token mappings. Entries disappear on their own once the TTL elapses.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for ttl, replacing any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Increment adds one to the counter stored under key and returns the new
	// value. A counter created by this call expires after ttl.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Key prefixes used in the cache.
const (
	VerificationKeyPrefix         = "verification:"
	VerificationAttemptsKeyPrefix = "verification-attempts:"
	RefreshKeyPrefix              = "refresh:"
)

// VerificationKey returns the cache key holding the verification code for an email.
func VerificationKey(email string) string {
	return VerificationKeyPrefix + email
}

// VerificationAttemptsKey returns the cache key counting failed code checks for an email.
func VerificationAttemptsKey(email string) string {
	return VerificationAttemptsKeyPrefix + email
}

// RefreshKey returns the cache key holding the username for a refresh token.
func RefreshKey(token string) string {
	return RefreshKeyPrefix + token
}
