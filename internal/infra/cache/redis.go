package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"formflow/internal/logger"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	// Prefix namespaces every key so several tools can share one database.
	Prefix      string
	TTL         time.Duration
	DialTimeout time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		Prefix:      "formflow:",
		TTL:         5 * time.Minute,
		DialTimeout: 5 * time.Second,
	}
}

// Redis is a read-through store shared between processes. Values travel as
// JSON; a corrupt entry is treated as a miss and overwritten.
type Redis[V any] struct {
	client CacheClient
	config RedisConfig
	group  singleflight.Group
	log    logger.Logger
}

func NewRedis[V any](ctx context.Context, config RedisConfig, log logger.Logger) (*Redis[V], error) {
	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", config.Addr, err)
	}

	r := NewRedisWithClient[V](client, config, log)
	r.log.Infow("redis cache ready", "addr", config.Addr, "db", config.DB)

	return r, nil
}

func NewRedisWithClient[V any](client CacheClient, config RedisConfig, log logger.Logger) *Redis[V] {
	return &Redis[V]{
		client: client,
		config: config,
		log:    logger.OrNop(log),
	}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var value V

	raw, err := r.client.Get(ctx, r.config.Prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warnw("redis get failed", "key", key, "error", err)
		}
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		r.log.Warnw("discarding undecodable cache entry", "key", key, "error", err)
		var zero V
		return zero, false
	}

	return value, true
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V) bool {
	data, err := json.Marshal(value)
	if err != nil {
		r.log.Errorw("encoding cache entry", "key", key, "error", err)
		return false
	}

	if err := r.client.Set(ctx, r.config.Prefix+key, data, r.config.TTL).Err(); err != nil {
		r.log.Warnw("redis set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (r *Redis[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if value, found := r.Get(ctx, key); found {
		return value, nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		r.Set(ctx, key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	value, ok := result.(V)
	if !ok {
		var zero V
		return zero, ErrUnexpectedValue
	}
	return value, nil
}

func (r *Redis[V]) Invalidate(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.config.Prefix+key).Err(); err != nil {
		r.log.Warnw("redis delete failed", "key", key, "error", err)
	}
}

func (r *Redis[V]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
