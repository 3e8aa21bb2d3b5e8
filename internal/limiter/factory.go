package limiter

import (
	"context"
	"fmt"
	"strings"
)

// LimiterConfig holds configuration for creating a rate limiter
type LimiterConfig struct {
	Type              string  // "memory", "redis" or "none"
	RequestsPerSecond float64 // can be fractional, 0.2 = 1 request per 5 seconds

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewLimiter creates the limiter named by cfg.Type
func NewLimiter(ctx context.Context, cfg LimiterConfig) (Limiter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "memory", "":
		return NewMemoryLimiter(cfg.RequestsPerSecond), nil

	case "redis":
		lim, err := NewRedisLimiter(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RequestsPerSecond)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis limiter: %w", err)
		}
		return lim, nil

	case "none":
		return NoopLimiter{}, nil

	default:
		return nil, fmt.Errorf("unknown rate limiter type: %s (supported: 'memory', 'redis', 'none')", cfg.Type)
	}
}
