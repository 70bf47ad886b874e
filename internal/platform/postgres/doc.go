// Package postgres provides the PostgreSQL implementation of the Credential
// Store defined in internal/store, together with the embedded goose schema
// migrations it relies on. Uniqueness of usernames and emails is enforced by
// table constraints and surfaced as store duplicate errors.
package postgres
