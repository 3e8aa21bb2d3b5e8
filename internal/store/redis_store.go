package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/evyataryagoni/schoolfinder/internal/models"
	"github.com/redis/go-redis/v9"
)

// Redis keys
//
//	schools:seq  counter used to assign ids
//	schools      hash of id -> JSON-encoded School
const (
	redisSchoolsKey  = "schools"
	redisSequenceKey = "schools:seq"
)

// RedisStore implements Store using a Redis hash
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// InsertSchool assigns the next id and stores the school under it
func (s *RedisStore) InsertSchool(ctx context.Context, school *models.School) error {
	id, err := s.client.Incr(ctx, redisSequenceKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate school id: %w", err)
	}

	stored := *school
	stored.ID = uint64(id)

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode school: %w", err)
	}

	field := strconv.FormatUint(stored.ID, 10)
	if err := s.client.HSet(ctx, redisSchoolsKey, field, data).Err(); err != nil {
		return fmt.Errorf("failed to store school in Redis: %w", err)
	}

	school.ID = stored.ID
	return nil
}

// FetchAllSchools reads every school from the hash, ordered by id
func (s *RedisStore) FetchAllSchools(ctx context.Context) ([]models.School, error) {
	values, err := s.client.HVals(ctx, redisSchoolsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("Redis query failed: %w", err)
	}

	schools := make([]models.School, 0, len(values))
	for _, val := range values {
		var school models.School
		if err := json.Unmarshal([]byte(val), &school); err != nil {
			return nil, fmt.Errorf("failed to decode school: %w", err)
		}
		schools = append(schools, school)
	}

	// Hash iteration order is random
	slices.SortFunc(schools, func(a, b models.School) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return schools, nil
}

// LoadSchools bulk-inserts schools, used by the import tool
// Returns the number of schools written
func (s *RedisStore) LoadSchools(ctx context.Context, schools []models.School) (int, error) {
	for i := range schools {
		if err := s.InsertSchool(ctx, &schools[i]); err != nil {
			return i, fmt.Errorf("failed to store school %q: %w", schools[i].Name, err)
		}
	}
	return len(schools), nil
}

// IsEmpty reports whether no school has been stored yet
func (s *RedisStore) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.client.HLen(ctx, redisSchoolsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis keys: %w", err)
	}
	return n == 0, nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
