package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	// DefaultViewTTL is how long an unused filter's data stays around for stale serving
	DefaultViewTTL = 15 * time.Minute
)

// ResourceCache keeps one loader.Resource per filter value, so every filter
// combination of a view has its own last-good data. Expired or evicted
// resources are closed.
type ResourceCache[F comparable, T any] struct {
	name    string
	cache   *gocache.Cache
	factory func() *loader.Resource[F, T]
	mu      sync.Mutex
}

// NewResourceCache creates a cache whose resources are built by factory
func NewResourceCache[F comparable, T any](name string, ttl time.Duration, factory func() *loader.Resource[F, T]) *ResourceCache[F, T] {
	c := gocache.New(ttl, ttl/2)
	c.OnEvicted(func(key string, value any) {
		if r, ok := value.(*loader.Resource[F, T]); ok {
			r.Close()
		}
		logger.Debug("View evicted", zap.String("view", name), zap.String("filter", key))
	})

	return &ResourceCache[F, T]{
		name:    name,
		cache:   c,
		factory: factory,
	}
}

// Get returns the resource for filter, creating it on first use. Each access extends its TTL.
func (rc *ResourceCache[F, T]) Get(filter F) *loader.Resource[F, T] {
	key := cacheKey(filter)

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if data, found := rc.cache.Get(key); found {
		if r, ok := data.(*loader.Resource[F, T]); ok {
			rc.cache.SetDefault(key, r)
			return r
		}
		logger.Error("Invalid view cache data type", zap.String("view", rc.name))
	}

	r := rc.factory()
	rc.cache.SetDefault(key, r)
	return r
}

// Fetch loads filter through its resource
func (rc *ResourceCache[F, T]) Fetch(ctx context.Context, filter F) loader.State[T] {
	return rc.Get(filter).Fetch(ctx, filter)
}

// Len returns the number of cached filters
func (rc *ResourceCache[F, T]) Len() int {
	return rc.cache.ItemCount()
}

// Reset closes and drops every resource
func (rc *ResourceCache[F, T]) Reset() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, item := range rc.cache.Items() {
		if r, ok := item.Object.(*loader.Resource[F, T]); ok {
			r.Close()
		}
	}
	rc.cache.Flush()
}

func cacheKey[F comparable](filter F) string {
	return fmt.Sprintf("%#v", filter)
}
