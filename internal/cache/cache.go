package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"RSIDashboard/internal/logger"

	"github.com/rs/zerolog"
)

// DefaultTTL is how long a computed value is served before it is recomputed.
const DefaultTTL = 5 * time.Minute

// Config configures a RefreshCache.
type Config[T any] struct {
	TTL time.Duration
	// Refresh computes a fresh value.
	Refresh func(ctx context.Context) (T, error)
	// Empty reports a value that must not be served from cache, e.g. an empty record list.
	Empty func(T) bool
	// Store optionally mirrors the value so another process can start warm.
	Store  Store
	Logger *zerolog.Logger
	// OnRefresh is called after every refresh attempt with the new value and error.
	OnRefresh func(T, error)
}

// RefreshCache holds one value with its last refresh time.
// Concurrent callers that find it stale share a single refresh. Readers never wait for a refresh in flight.
type RefreshCache[T any] struct {
	cfg Config[T]
	log *zerolog.Logger

	// refreshMu serialises refreshes; mu guards the state below and is never held across Refresh.
	refreshMu sync.Mutex
	storeRead atomic.Bool

	mu          sync.RWMutex
	value       T
	has         bool
	lastRefresh time.Time
}

// New creates a RefreshCache.
func New[T any](cfg Config[T]) *RefreshCache[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &RefreshCache[T]{cfg: cfg, log: log}
}

// current returns the held value and whether it may be served at now.
func (c *RefreshCache[T]) current(now time.Time) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.has {
		return c.value, false
	}
	if c.cfg.Empty != nil && c.cfg.Empty(c.value) {
		return c.value, false
	}
	return c.value, now.Sub(c.lastRefresh) <= c.cfg.TTL
}

// GetOrRefresh returns the cached value while now-lastRefresh <= ttl and recomputes otherwise.
// When the refresh fails the previous value, possibly stale or zero, is returned with the error.
func (c *RefreshCache[T]) GetOrRefresh(ctx context.Context, now time.Time) (T, error) {
	if v, ok := c.current(now); ok {
		return v, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.storeRead.CompareAndSwap(false, true) {
		c.loadStore(ctx, now)
	}
	// Another caller may have refreshed while this one waited.
	if v, ok := c.current(now); ok {
		return v, nil
	}
	return c.refresh(ctx, now)
}

// Refresh recomputes the value regardless of its age.
func (c *RefreshCache[T]) Refresh(ctx context.Context, now time.Time) (T, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	c.storeRead.Store(true)
	return c.refresh(ctx, now)
}

// refresh runs with refreshMu held.
func (c *RefreshCache[T]) refresh(ctx context.Context, now time.Time) (T, error) {
	v, err := c.cfg.Refresh(ctx)
	if c.cfg.OnRefresh != nil {
		c.cfg.OnRefresh(v, err)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("cache refresh failed, serving previous value")
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.value, err
	}

	c.mu.Lock()
	c.value = v
	c.has = true
	c.lastRefresh = now
	c.mu.Unlock()

	c.saveStore(ctx, v, now)
	return v, nil
}

// Invalidate makes the next GetOrRefresh recompute. The current value is kept as the error fallback.
func (c *RefreshCache[T]) Invalidate() {
	c.storeRead.Store(true)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRefresh = time.Time{}
}

// Peek returns the current value without refreshing.
func (c *RefreshCache[T]) Peek() (value T, refreshedAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.lastRefresh, c.has
}

// TTL returns the configured time to live.
func (c *RefreshCache[T]) TTL() time.Duration { return c.cfg.TTL }

func (c *RefreshCache[T]) loadStore(ctx context.Context, now time.Time) {
	if c.cfg.Store == nil {
		return
	}
	data, savedAt, err := c.cfg.Store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn().Err(err).Msg("cache store load failed")
		}
		return
	}
	if now.Sub(savedAt) > c.cfg.TTL {
		return
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warn().Err(err).Msg("cache store holds an undecodable value")
		return
	}
	c.mu.Lock()
	c.value = v
	c.has = true
	c.lastRefresh = savedAt
	c.mu.Unlock()
	c.log.Info().Time("saved_at", savedAt).Msg("cache warmed from store")
}

func (c *RefreshCache[T]) saveStore(ctx context.Context, v T, now time.Time) {
	if c.cfg.Store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache value not encodable")
		return
	}
	if err := c.cfg.Store.Save(ctx, data, now, c.cfg.TTL); err != nil {
		c.log.Warn().Err(err).Msg("cache store save failed")
	}
}
