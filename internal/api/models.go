package api

import (
	"github.com/topster/topster-api/internal/service"
)

// Common request/response structures

// VerificationRequest defines the payload for requesting an email verification code.
type VerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SignUpRequest defines the payload for the signup endpoint.
type SignUpRequest struct {
	Username string `json:"username"      validate:"required,max=64"`
	Password string `json:"password"      validate:"required,min=1,max=72"`
	Email    string `json:"email"         validate:"required,email"`
	Nickname string `json:"nickname"      validate:"required,max=50"`
	Intro    string `json:"intro"         validate:"max=500"`
	// Certification is the verification code mailed to Email
	Certification string `json:"certification" validate:"required"`
}

// SignUpResponse defines the data returned after signup.
type SignUpResponse struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the optional body of the refresh endpoint.
// The Refresh-Token header takes precedence when both are present.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateUserRequest defines the payload for updating the current user's profile.
type UpdateUserRequest struct {
	Nickname string `json:"nickname" validate:"max=50"`
	Intro    string `json:"intro"    validate:"max=500"`
	// Password is the current password
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Intro    string `json:"intro"`
	Role     string `json:"role"`
}

// SocialLoginResponse defines the data returned after a social login.
type SocialLoginResponse struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

func toUserResponse(r *service.GetUserResult) UserResponse {
	return UserResponse{
		Username: r.Username,
		Email:    r.Email,
		Nickname: r.Nickname,
		Intro:    r.Intro,
		Role:     r.Role.String(),
	}
}
