package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/onbase/internal/domain/model"
)

const backendRedis = "redis"

// RedisStore keeps the record as a JSON string under one key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore verifies the connection and returns a store writing to key.
func NewRedisStore(ctx context.Context, client *redis.Client, key string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if key == "" {
		return nil, errors.New("redis key cannot be empty")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load reads the key.
func (s *RedisStore) Load(ctx context.Context) (rec model.StreakRecord, err error) {
	defer func(start time.Time) { observe(backendRedis, "load", start, err) }(time.Now())

	b, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.StreakRecord{}, ErrNotFound
		}
		return model.StreakRecord{}, fmt.Errorf("get %s: %w", s.key, err)
	}
	return decode(b)
}

// Save overwrites the key.
func (s *RedisStore) Save(ctx context.Context, record model.StreakRecord) (err error) {
	defer func(start time.Time) { observe(backendRedis, "save", start, err) }(time.Now())

	b, err := encode(record)
	if err != nil {
		return err
	}
	if err = s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error { return s.client.Close() }
