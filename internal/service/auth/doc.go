// Package auth provides the Token Issuer (HS256 session tokens carrying
// username and role) and the Password Hasher (bcrypt).
package auth
