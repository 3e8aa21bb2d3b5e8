package limiter

import (
	"context"
	"sync"
	"time"
)

// idleBucketTTL is how long a client bucket may go unused before it is dropped
const idleBucketTTL = 5 * time.Minute

// tokenBucket holds the tokens of a single client
// A full bucket allows a burst of capacity requests, then refills at rate tokens per second
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
}

func newTokenBucket(rate, capacity float64, now time.Time) *tokenBucket {
	capacity = max(capacity, 1)
	return &tokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		rate:       rate,
		lastRefill: now,
	}
}

func (b *tokenBucket) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.tokens+elapsed*b.rate, b.capacity)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (b *tokenBucket) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.lastRefill)
}

// MemoryLimiter keeps one token bucket per client in process memory
// Suitable for a single server instance
type MemoryLimiter struct {
	buckets sync.Map // client key -> *tokenBucket
	rate    float64
	now     func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing requestsPerSecond per client
// Fractional rates are allowed, 0.2 means one request every five seconds
func NewMemoryLimiter(requestsPerSecond float64) *MemoryLimiter {
	return &MemoryLimiter{
		rate:      requestsPerSecond,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Allow consumes a token from the client's bucket
func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	now := l.now()

	allowed := l.bucket(key, now).take(now)
	l.sweep(now)

	return allowed
}

func (l *MemoryLimiter) bucket(key string, now time.Time) *tokenBucket {
	if b, ok := l.buckets.Load(key); ok {
		return b.(*tokenBucket)
	}
	b, _ := l.buckets.LoadOrStore(key, newTokenBucket(l.rate, l.rate, now))
	return b.(*tokenBucket)
}

// sweep drops buckets of clients that have been idle for idleBucketTTL
func (l *MemoryLimiter) sweep(now time.Time) {
	l.sweepMu.Lock()
	defer l.sweepMu.Unlock()

	if now.Sub(l.lastSweep) < idleBucketTTL {
		return
	}

	l.buckets.Range(func(key, value any) bool {
		if value.(*tokenBucket).idleSince(now) >= idleBucketTTL {
			l.buckets.Delete(key)
		}
		return true
	})
	l.lastSweep = now
}

// Close is a no-op for the in-memory limiter
func (l *MemoryLimiter) Close() error {
	return nil
}
