package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisSnapshotStore keeps the snapshot under a single key.
type RedisSnapshotStore struct {
	redis *Redis
	key   string
}

// NewRedisSnapshotStore builds a Redis-backed snapshot store.
func NewRedisSnapshotStore(r *Redis, slot string) *RedisSnapshotStore {
	return &RedisSnapshotStore{redis: r, key: "snapshot:" + slot}
}

// Load fetches the snapshot blob.
func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.redis.Client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

// Save stores the snapshot blob without expiry.
func (s *RedisSnapshotStore) Save(ctx context.Context, data []byte) error {
	return s.redis.Client.Set(ctx, s.key, data, 0).Err()
}

// Clear deletes the snapshot key.
func (s *RedisSnapshotStore) Clear(ctx context.Context) error {
	return s.redis.Client.Del(ctx, s.key).Err()
}
