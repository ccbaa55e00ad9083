// Package memory provides an in-memory cache repository implementation.
// It backs development setups and tests where Redis is not available.
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/springdish/v1/internal/ports/outbound"
)

const defaultTTL = 24 * time.Hour

// ErrKeyNotFound is returned when the key is absent or expired.
var ErrKeyNotFound = errors.New("key not found")

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository in memory
type CacheRepository struct {
	data  map[string]cacheItem
	mutex sync.Mutex
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{
		data: make(map[string]cacheItem),
	}
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item, ok := r.live(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return item.value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ttl <= 0 {
		ttl = defaultTTL
	}
	r.data[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, ok := r.live(key)
	return ok, nil
}

// Increment increments a counter
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var value int64
	if item, ok := r.live(key); ok && len(item.value) == 8 {
		value = int64(binary.BigEndian.Uint64(item.value))
	}
	value++

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(value))
	r.data[key] = cacheItem{
		value:     buf,
		expiresAt: time.Now().Add(defaultTTL),
	}
	return value, nil
}

// live returns the item when present and unexpired, evicting it lazily
// otherwise. Callers must hold the mutex.
func (r *CacheRepository) live(key string) (cacheItem, bool) {
	item, exists := r.data[key]
	if !exists {
		return cacheItem{}, false
	}
	if time.Now().After(item.expiresAt) {
		delete(r.data, key)
		return cacheItem{}, false
	}
	return item, true
}
