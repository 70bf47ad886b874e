// Package mocks provides shared test doubles for the store, cache, auth,
// OAuth, mail and service interfaces.
//
// Most mocks use function fields: leave a field nil to get the default
// behavior, or set it to script a response for one test:
//
//	tokens := &mocks.MockJWTService{
//	    GenerateTokenFn: func(ctx context.Context, username string, role domain.Role) (string, error) {
//	        return "mocked-token", nil
//	    },
//	}
//
// MockUserStore and MockCache are in-memory fakes that enforce the same
// uniqueness and miss semantics as the real stores. TestifyMockUserStore is
// available when a test needs call expectations.
package mocks
