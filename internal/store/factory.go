package store

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and configures a Store implementation
type Config struct {
	Type string // "mysql", "redis" or "memory"

	// Memory: optional CSV seed file
	SeedPath string

	// MySQL
	MySQLDSN         string
	MySQLAutoMigrate bool

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the store named by cfg.Type (factory pattern)
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "mysql":
		return NewMySQLStore(ctx, cfg.MySQLDSN, cfg.MySQLAutoMigrate)

	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	case "memory", "":
		if cfg.SeedPath == "" {
			return NewMemoryStore(nil), nil
		}
		return NewMemoryStoreFromCSV(cfg.SeedPath)

	default:
		return nil, fmt.Errorf("%w: %s (supported: 'mysql', 'redis', 'memory')", ErrUnknownDatastore, cfg.Type)
	}
}
