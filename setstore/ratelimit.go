package setstore

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limits configures a RateLimitedStore. Zero fields are unlimited.
type Limits struct {
	// RequestsPerSec caps the number of store calls per second.
	RequestsPerSec float64
	// BytesPerSec caps the bytes moved by Get and Put per second.
	BytesPerSec int
	// MaxInFlight caps concurrent store calls.
	MaxInFlight int64
}

// RateLimitedStore throttles calls to a (usually remote) Store.
type RateLimitedStore struct {
	inner    Store
	requests *rate.Limiter
	bytes    *rate.Limiter
	inFlight *semaphore.Weighted
}

// NewRateLimitedStore wraps inner with the given limits.
func NewRateLimitedStore(inner Store, limits Limits) *RateLimitedStore {
	s := &RateLimitedStore{inner: inner}

	if limits.RequestsPerSec > 0 {
		burst := max(int(limits.RequestsPerSec), 1)
		s.requests = rate.NewLimiter(rate.Limit(limits.RequestsPerSec), burst)
	}
	if limits.BytesPerSec > 0 {
		s.bytes = rate.NewLimiter(rate.Limit(limits.BytesPerSec), limits.BytesPerSec)
	}
	if limits.MaxInFlight > 0 {
		s.inFlight = semaphore.NewWeighted(limits.MaxInFlight)
	}

	return s
}

func (s *RateLimitedStore) acquire(ctx context.Context) (func(), error) {
	if s.requests != nil {
		if err := s.requests.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if s.inFlight != nil {
		if err := s.inFlight.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		return func() { s.inFlight.Release(1) }, nil
	}
	return func() {}, nil
}

// waitBytes charges n bytes against the byte budget. Blobs larger than the
// burst are charged in burst-sized chunks.
func (s *RateLimitedStore) waitBytes(ctx context.Context, n int) error {
	if s.bytes == nil {
		return nil
	}
	burst := s.bytes.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.bytes.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Get reads a blob once the limits allow it.
func (s *RateLimitedStore) Get(ctx context.Context, name string) ([]byte, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.waitBytes(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// Put writes a blob once the limits allow it.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := s.waitBytes(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob once the limits allow it.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.inner.Delete(ctx, name)
}

// List lists blobs once the limits allow it.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.inner.List(ctx, prefix)
}
