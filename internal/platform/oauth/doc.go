// Package oauth implements the authorization-code half of OAuth2 social login:
// exchanging a code for an access token at a provider's token endpoint and
// fetching the user profile from its resource endpoint.
//
// All outbound calls share one *http.Client supplied by the caller so that
// timeouts and connection pooling are configured in a single place.
package oauth
