package blobstore

import (
	"context"
	"slices"

	"github.com/hupe1980/vizsync/internal/cache"
	"github.com/hupe1980/vizsync/internal/resource"
)

// CachingStore wraps a Store and caches whole blobs read through Get.
//
// Writes and deletes invalidate the cached entry before reaching the inner
// store.
type CachingStore struct {
	inner Store
	cache *cache.LRU[string, []byte]
}

// NewCachingStore creates a CachingStore holding up to capacity bytes.
// If rc is non-nil, cached bytes are charged against its memory budget.
func NewCachingStore(inner Store, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU[string, []byte](capacity, rc),
	}
}

// Get serves a cached copy or reads through to the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return slices.Clone(data), nil
	}
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, slices.Clone(data), int64(len(data)))
	return data, nil
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key string) bool { return key == name })
}
