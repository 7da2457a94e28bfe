package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
)

var ErrUnexpectedValue = errors.New("cached value has unexpected type")

// Config tunes the in-process store.
type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	// TTL applies to every entry; zero keeps entries until evicted.
	TTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		NumCounters: 1e4,
		MaxCost:     1 << 10,
		BufferItems: 64,
		TTL:         5 * time.Minute,
	}
}

// Memory is an in-process read-through store. Concurrent loads of one key
// collapse into a single loader call.
type Memory[V any] struct {
	store   *ristretto.Cache
	group   singleflight.Group
	ttl     time.Duration
	onEvict func(key uint64)
}

type Option[V any] func(*Memory[V])

// WithEvictionHook is called for every entry ristretto evicts or expires.
func WithEvictionHook[V any](hook func(key uint64)) Option[V] {
	return func(m *Memory[V]) {
		m.onEvict = hook
	}
}

func NewMemory[V any](config Config, opts ...Option[V]) (*Memory[V], error) {
	defaults := DefaultConfig()
	if config.NumCounters <= 0 {
		config.NumCounters = defaults.NumCounters
	}
	if config.MaxCost <= 0 {
		config.MaxCost = defaults.MaxCost
	}
	if config.BufferItems <= 0 {
		config.BufferItems = defaults.BufferItems
	}

	m := &Memory[V]{ttl: config.TTL}
	for _, opt := range opts {
		opt(m)
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
		OnEvict: func(item *ristretto.Item) {
			if m.onEvict != nil {
				m.onEvict(item.Key)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating ristretto store: %w", err)
	}
	m.store = store

	return m, nil
}

func (m *Memory[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if ctx.Err() != nil {
		return zero, false
	}

	raw, found := m.store.Get(key)
	if !found {
		return zero, false
	}
	value, ok := raw.(V)
	return value, ok
}

// Set stores value and waits until it is visible to Get. Ristretto may still
// reject the write under contention; that only costs a reload.
func (m *Memory[V]) Set(ctx context.Context, key string, value V) bool {
	if ctx.Err() != nil {
		return false
	}
	accepted := m.store.SetWithTTL(key, value, 1, m.ttl)
	m.store.Wait()
	return accepted
}

func (m *Memory[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	if value, found := m.Get(ctx, key); found {
		return value, nil
	}

	result, err, _ := m.group.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if value, found := m.Get(ctx, key); found {
			return value, nil
		}

		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		m.Set(ctx, key, value)
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

func (m *Memory[V]) Invalidate(_ context.Context, key string) {
	m.store.Del(key)
	m.store.Wait()
}

func (m *Memory[V]) Close() {
	m.store.Close()
}
