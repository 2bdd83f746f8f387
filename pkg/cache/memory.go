package cache

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryCache keeps options in process memory
type MemoryCache struct {
	cache *cache.Cache

	mu  sync.Mutex
	gen int64
}

// NewMemoryCache creates a cache whose entries expire after ttl and are purged every 2*ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: cache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]string, bool) {
	if x, found := m.cache.Get(key); found {
		values := x.([]string)
		out := make([]string, len(values))
		copy(out, values)
		return out, true
	}
	return nil, false
}

func (m *MemoryCache) Generation(ctx context.Context) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen, true
}

// Set drops values computed before the latest Flush
func (m *MemoryCache) Set(ctx context.Context, gen int64, key string, values []string) {
	stored := make([]string, len(values))
	copy(stored, values)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.cache.Set(key, stored, cache.DefaultExpiration)
}

func (m *MemoryCache) Flush(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.cache.Flush()
}
