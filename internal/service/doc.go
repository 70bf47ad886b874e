// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the stores
// defined in internal/store and the token issuer in internal/service/auth.
//
// Key components:
//
// 1. UserService:
//   - Email verification codes, signup, password login, token refresh
//   - Profile read and update for an already authenticated user
//
// 2. SocialLoginService:
//   - Authorization code exchange with a registered OAuth2 provider
//   - Just-in-time provisioning of an account from the provider profile
//
// 3. Error taxonomy:
//   - Sentinel errors in errors.go that the API layer maps to status codes
//   - ProviderError and IsRetryable to separate transient provider failures
//     from business rule rejections
//
// Account creation runs inside store.RunInTransaction and relies on the
// store's unique constraints, so two concurrent requests for the same
// username or email cannot both succeed.
package service
