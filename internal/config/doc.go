// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config.yaml file. It provides
// type-safe access to server, database, auth, cache and OAuth2 provider
// settings while keeping configuration details separate from business logic.
package config
