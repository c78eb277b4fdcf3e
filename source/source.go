// Package source defines where experiment configuration blobs come from.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	// ErrNotFound means the store answered but has no parameter under the name.
	ErrNotFound = errors.New("parameter not found")
	// ErrUnavailable means the store could not be reached or refused the request.
	ErrUnavailable = errors.New("configuration store unavailable")
)

// Source fetches a raw configuration blob by name. Implementations must be
// safe for concurrent use.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, name string) ([]byte, error)

// Fetch implements Source.
func (f Func) Fetch(ctx context.Context, name string) ([]byte, error) { return f(ctx, name) }

// Static serves blobs from memory. The zero value is empty and ready to use.
type Static struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStatic returns a Static source holding a single parameter.
func NewStatic(name, value string) *Static {
	s := &Static{}
	s.Set(name, value)
	return s
}

// Set stores or replaces a parameter.
func (s *Static) Set(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string][]byte)
	}
	s.values[name] = []byte(value)
}

// Delete removes a parameter.
func (s *Static) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

// Fetch implements Source.
func (s *Static) Fetch(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), v...), nil
}

// Env reads the blob from the environment variable named by the parameter name.
type Env struct{}

// Fetch implements Source.
func (Env) Fetch(_ context.Context, name string) ([]byte, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return []byte(v), nil
}

type cacheEntry struct {
	value   []byte
	fetched time.Time
}

// Cached keeps successful fetches for a fixed max age. Failed fetches are never cached.
type Cached struct {
	inner  Source
	maxAge time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCached wraps inner. A non-positive maxAge disables caching.
func NewCached(inner Source, maxAge time.Duration) *Cached {
	return &Cached{
		inner:   inner,
		maxAge:  maxAge,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch implements Source.
func (c *Cached) Fetch(ctx context.Context, name string) ([]byte, error) {
	if c.maxAge <= 0 {
		return c.inner.Fetch(ctx, name)
	}

	c.mu.Lock()
	e, ok := c.entries[name]
	c.mu.Unlock()
	if ok && c.now().Sub(e.fetched) < c.maxAge {
		return append([]byte(nil), e.value...), nil
	}

	v, err := c.inner.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = cacheEntry{value: v, fetched: c.now()}
	c.mu.Unlock()
	return append([]byte(nil), v...), nil
}

// Invalidate drops a cached parameter so the next Fetch goes to the store.
func (c *Cached) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}
