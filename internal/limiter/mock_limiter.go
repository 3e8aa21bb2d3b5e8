package limiter

import (
	"context"
	"sync"
)

// MockLimiter is a test double for the Limiter interface
type MockLimiter struct {
	mu sync.Mutex

	AllowResult bool

	AllowCalls  []string // client keys Allow was called with
	CloseCalled bool

	CloseError error
}

// NewMockLimiter creates a mock limiter that always answers allowResult
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
		AllowCalls:  []string{},
	}
}

// Allow records the key and returns AllowResult
func (m *MockLimiter) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AllowCalls = append(m.AllowCalls, key)
	return m.AllowResult
}

// Close records the call and returns CloseError
func (m *MockLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return m.CloseError
}
