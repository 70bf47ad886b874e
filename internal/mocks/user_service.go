package mocks

import (
	"context"

	"github.com/topster/topster-api/internal/domain"
	"github.com/topster/topster-api/internal/service"
)

// MockUserService implements service.UserService for handler tests.
// Unset function fields return zero values.
type MockUserService struct {
	SendVerificationCodeFn func(ctx context.Context, email string) error
	SignUpFn               func(ctx context.Context, req service.SignUpRequest) (*service.SignUpResult, error)
	LoginFn                func(ctx context.Context, req service.LoginRequest, sink service.TokenSink) error
	UpdateUserFn           func(ctx context.Context, user *domain.User, req service.UpdateRequest) error
	RefreshTokenFn         func(ctx context.Context, refreshToken string) (string, error)
}

// SendVerificationCode implements service.UserService
func (m *MockUserService) SendVerificationCode(ctx context.Context, email string) error {
	if m.SendVerificationCodeFn != nil {
		return m.SendVerificationCodeFn(ctx, email)
	}
	return nil
}

// SignUp implements service.UserService
func (m *MockUserService) SignUp(ctx context.Context, req service.SignUpRequest) (*service.SignUpResult, error) {
	if m.SignUpFn != nil {
		return m.SignUpFn(ctx, req)
	}
	return &service.SignUpResult{Username: req.Username, Nickname: req.Nickname}, nil
}

// Login implements service.UserService
func (m *MockUserService) Login(ctx context.Context, req service.LoginRequest, sink service.TokenSink) error {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req, sink)
	}
	return nil
}

// UpdateUser implements service.UserService
func (m *MockUserService) UpdateUser(ctx context.Context, user *domain.User, req service.UpdateRequest) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user, req)
	}
	return nil
}

// GetUser implements service.UserService with the same projection as the real service.
func (m *MockUserService) GetUser(user *domain.User) *service.GetUserResult {
	if user == nil {
		return nil
	}
	return &service.GetUserResult{
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
		Intro:    user.Intro,
		Role:     user.Role,
	}
}

// RefreshToken implements service.UserService
func (m *MockUserService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshTokenFn != nil {
		return m.RefreshTokenFn(ctx, refreshToken)
	}
	return "", nil
}

// Ensure MockUserService implements service.UserService
var _ service.UserService = (*MockUserService)(nil)
