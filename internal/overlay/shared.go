package overlay

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// SharedFetcher lets many loaders acquire the same bundles while the
// underlying fetcher runs at most once per resource. Failures are not
// cached, so a later loader may try again.
type SharedFetcher struct {
	next  Fetcher
	group singleflight.Group

	mu      sync.RWMutex
	bundles map[Resource]Bundle
}

// NewSharedFetcher wraps next.
func NewSharedFetcher(next Fetcher) *SharedFetcher {
	return &SharedFetcher{
		next:    next,
		bundles: make(map[Resource]Bundle),
	}
}

// Fetch returns the cached bundle or acquires it.
func (s *SharedFetcher) Fetch(ctx context.Context, id Resource) (Bundle, error) {
	s.mu.RLock()
	b, ok := s.bundles[id]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := s.group.Do(string(id), func() (any, error) {
		b, err := s.next.Fetch(ctx, id)
		if err != nil {
			return Bundle{}, err
		}
		s.mu.Lock()
		s.bundles[id] = b
		s.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return Bundle{}, err
	}
	return v.(Bundle), nil
}
