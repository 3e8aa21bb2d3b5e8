package limiter

import "context"

// Limiter decides whether a client may make another request
type Limiter interface {
	// Allow reports whether a request from key should be served
	Allow(ctx context.Context, key string) bool

	// Close releases connections or background resources
	Close() error
}

// NoopLimiter allows every request
type NoopLimiter struct{}

// Allow always returns true
func (NoopLimiter) Allow(context.Context, string) bool { return true }

// Close is a no-op
func (NoopLimiter) Close() error { return nil }
