package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by a Store holding no value.
var ErrMiss = errors.New("cache miss")

// Store persists the encoded cache value.
type Store interface {
	Load(ctx context.Context) (data []byte, savedAt time.Time, err error)
	Save(ctx context.Context, data []byte, savedAt time.Time, ttl time.Duration) error
}

// RedisOptions configures RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the snapshot under a single key that expires with the cache TTL.
type RedisStore struct {
	rdb *redis.Client
	key string
}

type envelope struct {
	SavedAt int64           `json:"saved_at"` // unix millis
	Value   json.RawMessage `json:"value"`
}

// NewRedisStore connects and pings Redis.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	key := opts.Key
	if key == "" {
		key = "rsiboard:signals"
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, time.Time, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return env.Value, time.UnixMilli(env.SavedAt), nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte, savedAt time.Time, ttl time.Duration) error {
	b, err := json.Marshal(envelope{SavedAt: savedAt.UnixMilli(), Value: data})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Health checks the Redis connection.
func (s *RedisStore) Health(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
