package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/topster/topster-api/internal/store"
)

// MockCache implements store.Cache in memory. TTLs are recorded but never expire.
type MockCache struct {
	GetError       error
	SetError       error
	DeleteError    error
	IncrementError error

	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	deleted []string
}

// NewMockCache creates an empty MockCache.
func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

// Get implements store.Cache.
func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrCacheMiss
	}
	return v, nil
}

// Set implements store.Cache.
func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

// Delete implements store.Cache.
func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.ttls, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// Increment implements store.Cache. The ttl is recorded when the counter is created.
func (m *MockCache) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if m.IncrementError != nil {
		return 0, m.IncrementError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if v, ok := m.values[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, err
		}
		n = parsed
	} else {
		m.ttls[key] = ttl
	}
	n++
	m.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// Put seeds a value without going through Set.
func (m *MockCache) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Value returns the stored value and whether it exists.
func (m *MockCache) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// TTL returns the ttl recorded by the last Set of key.
func (m *MockCache) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// Keys returns every stored key.
func (m *MockCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

// Deleted returns the keys passed to Delete, in order.
func (m *MockCache) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// Ensure MockCache implements store.Cache
var _ store.Cache = (*MockCache)(nil)
