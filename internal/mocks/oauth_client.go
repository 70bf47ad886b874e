package mocks

import (
	"context"

	"github.com/topster/topster-api/internal/platform/oauth"
)

// MockOAuthClient implements service.OAuthClient for testing
type MockOAuthClient struct {
	// Providers lists the provider ids reported as configured
	Providers []string

	ExchangeFn     func(ctx context.Context, providerID, code string) (string, error)
	FetchProfileFn func(ctx context.Context, providerID, accessToken string) (*oauth.Profile, error)

	// Default values used when functions aren't explicitly defined
	AccessToken  string
	ExchangeErr  error
	Profile      *oauth.Profile
	FetchErr     error
	ExchangeCall int
	FetchCall    int
}

// HasProvider reports whether providerID is in Providers.
func (m *MockOAuthClient) HasProvider(providerID string) bool {
	for _, p := range m.Providers {
		if p == providerID {
			return true
		}
	}
	return false
}

// Exchange returns AccessToken or ExchangeErr unless ExchangeFn is set.
func (m *MockOAuthClient) Exchange(ctx context.Context, providerID, code string) (string, error) {
	m.ExchangeCall++
	if m.ExchangeFn != nil {
		return m.ExchangeFn(ctx, providerID, code)
	}
	return m.AccessToken, m.ExchangeErr
}

// FetchProfile returns Profile or FetchErr unless FetchProfileFn is set.
func (m *MockOAuthClient) FetchProfile(ctx context.Context, providerID, accessToken string) (*oauth.Profile, error) {
	m.FetchCall++
	if m.FetchProfileFn != nil {
		return m.FetchProfileFn(ctx, providerID, accessToken)
	}
	return m.Profile, m.FetchErr
}
