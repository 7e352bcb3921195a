package cache

import (
	"context"
	"time"
)

// reapBatch caps the keys removed by one sweep
const reapBatch = 4096

// reap removes expired entries in the background. Keys arrive on the expired
// channel when reads find them, the periodic sweep catches the rest.
func (c *Cache[K, V]) reap(ctx context.Context) {
	defer c.reaperWG.Done()

	ticker := time.NewTicker(c.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case key := <-c.expired:
			c.reapKey(key)
		case <-ticker.C:
			if n := c.sweep(ctx); n > 0 {
				log.Debugf("reaper removed %d expired entries from %s", n, c.dir)
			}
		}
	}
}

// sweep removes up to reapBatch expired entries and returns how many it removed
func (c *Cache[K, V]) sweep(ctx context.Context) int {
	removed := 0
	for _, key := range c.disk.ExpiredKeys(reapBatch) {
		if ctx.Err() != nil {
			break
		}
		if c.reapKey(key) {
			removed++
		}
	}
	return removed
}

// reapKey removes key under its stripe if it is still expired
func (c *Cache[K, V]) reapKey(encKey string) bool {
	if err := c.enter(); err != nil {
		return false
	}
	defer c.leave()

	mu := c.stripe(encKey)
	mu.Lock()
	defer mu.Unlock()

	// the heap copy is dropped by onRemove
	removed, err := c.disk.RemoveExpired(encKey)
	if err != nil {
		log.Warningf("reaper could not remove %q from %s: %v", encKey, c.dir, err)
		return false
	}
	return removed
}
