package mocks

import (
	"context"

	"github.com/topster/topster-api/internal/service"
)

// MockSocialLoginService implements service.SocialLoginService for handler tests.
type MockSocialLoginService struct {
	SocialLoginFn func(ctx context.Context, code, providerID string) (*service.SocialLoginResult, error)
}

// SocialLogin implements service.SocialLoginService
func (m *MockSocialLoginService) SocialLogin(ctx context.Context, code, providerID string) (*service.SocialLoginResult, error) {
	if m.SocialLoginFn != nil {
		return m.SocialLoginFn(ctx, code, providerID)
	}
	return nil, service.ErrUnknownProvider
}

// Ensure MockSocialLoginService implements service.SocialLoginService
var _ service.SocialLoginService = (*MockSocialLoginService)(nil)
