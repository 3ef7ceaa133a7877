// Package memory provides an in-memory cache repository used in
// development and tests when no Redis instance is available.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrKeyNotFound is returned when a key is missing or expired.
var ErrKeyNotFound = errors.New("key not found")

const defaultTTL = 24 * time.Hour

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository on a plain map.
type CacheRepository struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	done  chan struct{}
}

// NewCacheRepository creates an in-memory cache and starts its
// expiry sweeper. Call Close to stop the sweeper.
func NewCacheRepository() *CacheRepository {
	repo := &CacheRepository{
		data: make(map[string]cacheItem),
		done: make(chan struct{}),
	}
	go repo.sweep(time.Minute)
	return repo
}

// Get retrieves a value. Missing and expired keys both report ErrKeyNotFound.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mutex.RLock()
	item, exists := r.data[key]
	r.mutex.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		return nil, ErrKeyNotFound
	}
	return item.value, nil
}

// Set stores a value with the given TTL. A zero TTL falls back to 24 hours.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.data, key)
	return nil
}

// Exists reports whether a key is present and unexpired.
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, exists := r.data[key]
	if !exists || time.Now().After(item.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the expiry sweeper.
func (r *CacheRepository) Close() {
	close(r.done)
}

func (r *CacheRepository) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			now := time.Now()
			r.mutex.Lock()
			for key, item := range r.data {
				if now.After(item.expiresAt) {
					delete(r.data, key)
				}
			}
			r.mutex.Unlock()
		}
	}
}
