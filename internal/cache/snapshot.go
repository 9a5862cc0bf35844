// Package cache provides the short-lived read cache that sits in front
// of the snapshot store.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
)

// Loader fetches a fresh snapshot from the store.
type Loader func(ctx context.Context) (inventory.Snapshot, error)

// Snapshot caches one loaded snapshot for a fixed TTL.  Invalidate takes
// effect before it returns: the next GetOrLoad always reloads, and a
// load that was in flight when Invalidate ran is not stored.
type Snapshot struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	value      inventory.Snapshot
	expires    time.Time
	valid      bool
	generation uint64
}

// NewSnapshot returns a cache with the given TTL.  A non-positive TTL
// disables caching.  now may be nil, in which case time.Now is used.
func NewSnapshot(ttl time.Duration, now func() time.Time) *Snapshot {
	if now == nil {
		now = time.Now
	}
	return &Snapshot{ttl: ttl, now: now}
}

// GetOrLoad returns the cached snapshot, calling load on a miss.  The
// returned snapshot is a copy; callers may keep it.
func (c *Snapshot) GetOrLoad(ctx context.Context, load Loader) (inventory.Snapshot, error) {
	c.mu.Lock()
	if c.valid && c.now().Before(c.expires) {
		v := c.value.Clone()
		c.mu.Unlock()
		return v, nil
	}
	gen := c.generation
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		return inventory.Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ttl > 0 && gen == c.generation {
		c.value = v.Clone()
		c.expires = c.now().Add(c.ttl)
		c.valid = true
	}
	return v, nil
}

// Invalidate drops the cached snapshot.
func (c *Snapshot) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.value = inventory.Snapshot{}
	c.generation++
	c.mu.Unlock()
}
