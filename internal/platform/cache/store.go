package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent misses on one key share a single load.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  singleflight.Group
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Load is GetOrLoad with a typed result.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}
	return typed, nil
}
