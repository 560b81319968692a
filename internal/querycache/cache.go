package querycache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusFresh
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	default:
		return "idle"
	}
}

type entry struct {
	key        Key
	value      any
	hasValue   bool
	stale      bool
	fetchedAt  time.Time
	generation uint64
	// waiters counts callers blocked in Fetch; fetching counts calls of fn
	// still running, including ones every waiter has abandoned.
	waiters  int
	fetching int
}

// Cache holds query results keyed by Key. Concurrent readers of a key share
// one fetch; an invalidation while a fetch is running discards that fetch's
// result instead of storing it.
type Cache struct {
	mu           sync.Mutex
	entries      map[string]*entry
	group        singleflight.Group
	nextGen      uint64
	staleTime    time.Duration
	fetchTimeout time.Duration
	clockNow     func() time.Time
}

type Option func(*Cache)

// WithStaleTime makes entries older than d refetch on the next read. Zero
// keeps entries fresh until invalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithFetchTimeout bounds each call of a fetch function. Zero leaves fetches
// bounded only by the function itself.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) { c.fetchTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.clockNow = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]*entry),
		clockNow: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) generation() uint64 {
	c.nextGen++
	return c.nextGen
}

// lookup returns the entry for key, creating it. Caller holds mu.
func (c *Cache) lookup(key Key) *entry {
	id := key.id()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{key: append(Key(nil), key...), generation: c.generation()}
		c.entries[id] = e
	}
	return e
}

func (c *Cache) fresh(e *entry) bool {
	if !e.hasValue || e.stale {
		return false
	}
	return c.staleTime <= 0 || c.clockNow().Sub(e.fetchedAt) < c.staleTime
}

func (c *Cache) store(key Key, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id()]
	if !ok || e.generation != gen {
		return
	}
	e.value = v
	e.hasValue = true
	e.stale = false
	e.fetchedAt = c.clockNow()
}

// leave drops a waiter. When the last one gives up on a fetch that is still
// running, the call is forgotten so the next read starts a new one instead
// of joining it.
func (c *Cache) leave(id string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.waiters > 0 {
		e.waiters--
	}
	if e.waiters == 0 && e.fetching > 0 {
		c.group.Forget(id)
	}
}

func (c *Cache) run(ctx context.Context, e *entry, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	e.fetching++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		e.fetching--
		c.mu.Unlock()
	}()

	fctx := context.WithoutCancel(ctx)
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(fctx, c.fetchTimeout)
		defer cancel()
	}
	return fn(fctx)
}

// Fetch returns the cached value for key when fresh and otherwise runs fn,
// sharing one call among concurrent callers. fn runs detached from the
// caller's cancellation so one caller giving up does not fail the others; it
// is bounded by the fetch timeout instead.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	id := key.id()

	c.mu.Lock()
	e := c.lookup(key)
	if c.fresh(e) {
		v, ok := e.value.(T)
		c.mu.Unlock()
		if !ok {
			return zero, fmt.Errorf("querycache: %s holds %T", key, e.value)
		}
		return v, nil
	}
	gen := e.generation
	e.waiters++
	c.mu.Unlock()
	defer c.leave(id, e)

	ch := c.group.DoChan(id, func() (any, error) {
		v, err := c.run(ctx, e, func(fctx context.Context) (any, error) { return fn(fctx) })
		if err != nil {
			return nil, err
		}
		c.store(key, gen, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("querycache: %s fetched %T", key, res.Val)
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Peek returns whatever is cached for key without fetching. While a refetch
// is running the previous value comes back with StatusFetching.
func Peek[T any](c *Cache, key Key) (T, Status) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id()]
	if !ok {
		return zero, StatusIdle
	}
	v, _ := e.value.(T)
	switch {
	case c.fresh(e):
		return v, StatusFresh
	case e.fetching > 0:
		return v, StatusFetching
	case e.hasValue:
		return v, StatusStale
	default:
		return zero, StatusIdle
	}
}

// Invalidate marks every entry under prefix stale. Fetches already running
// for those keys will not be stored, and the next read starts a new one.
func (c *Cache) Invalidate(ctx context.Context, prefix Key) int {
	c.mu.Lock()
	n := 0
	for id, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		e.generation = c.generation()
		c.group.Forget(id)
		n++
	}
	c.mu.Unlock()

	logger.FromContext(ctx).Debug("query cache invalidated", "prefix", prefix.String(), "entries", n)
	return n
}

// Purge drops matching entries entirely.
func (c *Cache) Purge(match func(Key) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if match(e.key) {
			delete(c.entries, id)
			c.group.Forget(id)
			n++
		}
	}
	return n
}

// Mutate runs a write and, only if it succeeds, invalidates each prefix in
// order. A failed write leaves the cache untouched.
func Mutate[T any](ctx context.Context, c *Cache, fn func(ctx context.Context) (T, error), invalidates ...Key) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	for _, prefix := range invalidates {
		c.Invalidate(ctx, prefix)
	}
	return v, nil
}
