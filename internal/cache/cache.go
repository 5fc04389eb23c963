package cache

import (
	"context"
	"time"
)

// Default TTLs: content changes rarely, dynamic data churns faster.
const (
	ContentTTL = 600 * time.Second
	DynamicTTL = 300 * time.Second
)

// Cache stores serialized JSON payloads under canonical keys (see keys.go).
// Expired entries are treated as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (n *NoopCache) Flush(ctx context.Context) error {
	return nil
}
