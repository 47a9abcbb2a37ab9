package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/learning"
)

// RedisStore persists model snapshots in Redis so several filter
// instances can share one trained model
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %v", err)
	}
	opt.DB = cfg.DatabaseNum

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("Redis connection failed: %v", err)
	}

	var ttl time.Duration
	if cfg.TTL != "" {
		ttl, err = time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot TTL %q: %v", cfg.TTL, err)
		}
	}

	key := cfg.Key
	if key == "" {
		key = "spampipe:model"
	}

	return &RedisStore{client: client, key: key, ttl: ttl}, nil
}

// Save writes the snapshot under the configured key
func (s *RedisStore) Save(ctx context.Context, snap *learning.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode model: %v", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store model in Redis: %v", err)
	}
	return nil
}

// Load reads the snapshot from the configured key
func (s *RedisStore) Load(ctx context.Context) (*learning.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("no model stored under key %q", s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model from Redis: %v", err)
	}

	var snap learning.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode model: %v", err)
	}
	return &snap, nil
}

// Close releases the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
