package session

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStorage keeps the session in process memory. Used for tests and SESSION_BACKEND=memory.
type MemoryStorage struct {
	cache *gocache.Cache
	// guards multi-key batches; go-cache only locks single operations
	mu sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *MemoryStorage) GetMany(_ context.Context, keys []string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, found := m.cache.Get(key); found {
			if s, ok := v.(string); ok {
				values[key] = s
			}
		}
	}
	return values, nil
}

func (m *MemoryStorage) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range values {
		m.cache.Set(key, value, gocache.NoExpiration)
	}
	return nil
}

func (m *MemoryStorage) DeleteMany(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		m.cache.Delete(key)
	}
	return nil
}

func (m *MemoryStorage) Close() error {
	m.cache.Flush()
	return nil
}
