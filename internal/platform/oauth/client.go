package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/platform/logger"
	"golang.org/x/oauth2"
)

// maxProfileBytes bounds how much of a profile response is read.
const maxProfileBytes = 1 << 20

// Profile is the subset of the provider's user resource needed to provision an account.
type Profile struct {
	ID    string `json:"id"    validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required"`
}

// Client performs token exchange and profile retrieval for registered providers.
type Client struct {
	httpClient *http.Client
	providers  map[string]config.ProviderConfig
	validate   *validator.Validate
}

// NewClient creates a Client. httpClient is shared by every provider call and
// should carry explicit timeouts.
func NewClient(httpClient *http.Client, providers map[string]config.ProviderConfig) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	registered := make(map[string]config.ProviderConfig, len(providers))
	for id, p := range providers {
		registered[id] = p
	}
	return &Client{
		httpClient: httpClient,
		providers:  registered,
		validate:   validator.New(),
	}
}

// HasProvider reports whether providerID is registered.
func (c *Client) HasProvider(providerID string) bool {
	_, ok := c.providers[providerID]
	return ok
}

func (c *Client) provider(providerID string) (config.ProviderConfig, error) {
	p, ok := c.providers[providerID]
	if !ok {
		return config.ProviderConfig{}, fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}
	return p, nil
}

func (c *Client) oauth2Config(p config.ProviderConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL: p.TokenURI,
			// code, client_id, client_secret, redirect_uri and grant_type all go in the form body
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Exchange trades an authorization code for an access token at the provider's
// token endpoint.
func (c *Client) Exchange(ctx context.Context, providerID, code string) (string, error) {
	p, err := c.provider(providerID)
	if err != nil {
		return "", err
	}
	log := logger.FromContext(ctx).With("component", "oauth", "provider", providerID)

	// x/oauth2 picks the HTTP client up from the context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth2Config(p).Exchange(ctx, code)
	if err != nil {
		reqErr := &RequestError{
			Provider: providerID,
			Op:       OpExchange,
			Err:      fmt.Errorf("%w: %w", ErrExchangeFailed, err),
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			reqErr.StatusCode = retrieveErr.Response.StatusCode
			reqErr.Transient = transientStatus(reqErr.StatusCode)
		} else {
			reqErr.Transient = transientTransport(err)
		}
		log.Warn("token exchange failed",
			"status", reqErr.StatusCode,
			"transient", reqErr.Transient)
		return "", reqErr
	}

	log.Debug("token exchange succeeded", "token_type", tok.Type())
	return tok.AccessToken, nil
}

// FetchProfile retrieves and validates the user profile with an access token.
func (c *Client) FetchProfile(ctx context.Context, providerID, accessToken string) (*Profile, error) {
	p, err := c.provider(providerID)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With("component", "oauth", "provider", providerID)

	fail := func(status int, transient bool, cause error) error {
		return &RequestError{
			Provider:   providerID,
			Op:         OpFetchProfile,
			StatusCode: status,
			Transient:  transient,
			Err:        cause,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ResourceURI, nil)
	if err != nil {
		return nil, fail(0, false, fmt.Errorf("%w: build request: %w", ErrExchangeFailed, err))
	}
	req.Header.Set("Accept", "application/json")
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("profile request failed", "transient", transientTransport(err))
		return nil, fail(0, transientTransport(err), fmt.Errorf("%w: %w", ErrExchangeFailed, err))
	}
	defer func() {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProfileBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("profile request rejected", "status", resp.StatusCode)
		return nil, fail(resp.StatusCode, transientStatus(resp.StatusCode),
			fmt.Errorf("%w: unexpected status %d", ErrExchangeFailed, resp.StatusCode))
	}

	var profile Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBytes)).Decode(&profile); err != nil {
		log.Warn("profile response could not be decoded", "error", err)
		return nil, fail(resp.StatusCode, false, fmt.Errorf("%w: %w", ErrMalformedProfile, err))
	}
	if err := c.validate.Struct(profile); err != nil {
		log.Warn("profile response failed validation", "error", err)
		return nil, fail(resp.StatusCode, false, fmt.Errorf("%w: %w", ErrMalformedProfile, err))
	}

	return &profile, nil
}
