// Package store defines interfaces for data persistence operations: the
// Credential Store for user accounts and the ephemeral Cache for short-lived
// verification codes and refresh token mappings. Implementations live under
// internal/platform.
package store
