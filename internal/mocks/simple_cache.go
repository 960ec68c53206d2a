package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/quantmind-br/ghfetch/internal/domain"
)

// SimpleMockCache is a map-backed domain.Cache that records TTLs
type SimpleMockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	Gets int
	Sets int
}

var _ domain.Cache = (*SimpleMockCache)(nil)

// NewSimpleMockCache creates an empty SimpleMockCache
func NewSimpleMockCache() *SimpleMockCache {
	return &SimpleMockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (c *SimpleMockCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (c *SimpleMockCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	c.data[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *SimpleMockCache) Has(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *SimpleMockCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.ttls, key)
	return nil
}

func (c *SimpleMockCache) Close() error {
	return nil
}

// TTL returns the TTL recorded for key
func (c *SimpleMockCache) TTL(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

// Len returns the number of stored keys
func (c *SimpleMockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
