package setstore

import (
	"context"

	"github.com/hupe1980/idset/internal/cache"
)

// CachingStore wraps a Store and keeps recently read sets in memory.
//
// Stored sets are replaced whole, so the cache holds complete blobs keyed by
// name. Put and Delete through the wrapper invalidate the entry; writes that
// bypass it are not observed.
type CachingStore struct {
	inner Store
	cache *cache.LRU
}

// NewCachingStore creates a CachingStore holding up to capacity bytes.
func NewCachingStore(inner Store, capacity int64) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity),
	}
}

// Get returns a copy of the set, from the cache when present.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if b, ok := s.cache.Get(name); ok {
		return clone(b), nil
	}
	gen := s.cache.Generation(name)
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfGeneration(name, gen, clone(data))
	return data, nil
}

// Put writes through and invalidates the cached entry.
// The entry is invalidated again once the write lands, so a concurrent Get
// that loaded the previous blob in between does not cache it.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(name)
	defer s.cache.Invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the set and its cached entry.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(name)
	defer s.cache.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List returns all names with the given prefix.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
