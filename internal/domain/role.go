package domain

import (
	"fmt"
	"strings"
)

// Role is the authorization scope attached to a user.
type Role string

const (
	// RoleUser is granted to every account created through signup or social login.
	RoleUser Role = "USER"
	// RoleAdmin is granted out of band.
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a stored or transmitted value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether r is a member of the enumeration.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
