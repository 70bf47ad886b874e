package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRole is returned when a role is not part of the Role enumeration.
	ErrInvalidRole = errors.New("invalid role")
)
