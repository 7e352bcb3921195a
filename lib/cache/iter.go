package cache

import (
	"errors"
	"iter"
)

// --------------------------------------------------------------------------
// Iteration
// --------------------------------------------------------------------------
//
// Iterators work on a snapshot of the keys taken when iteration starts.
// Entries removed afterwards are skipped, entries added afterwards are not
// visited. Entries that cannot be read or decoded are logged and skipped.
// The loop body may call any cache method.

// All iterates over all live entries. Every visited entry counts as an access.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, encKey := range c.snapshotKeys() {
			key, err := c.keys.Decode([]byte(encKey))
			if err != nil {
				log.Warningf("skipping undecodable key %q in %s: %v", encKey, c.dir, err)
				continue
			}
			raw, ok, err := c.getEncoded(encKey)
			if err != nil {
				if errors.Is(err, ErrClosed) {
					return
				}
				log.Warningf("skipping unreadable entry %q in %s: %v", encKey, c.dir, err)
				continue
			}
			if !ok {
				continue
			}
			value, err := c.decodeValue(raw)
			if err != nil {
				log.Warningf("skipping undecodable value of %q in %s: %v", encKey, c.dir, err)
				continue
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

// Keys iterates over the keys of all live entries without touching them
func (c *Cache[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, encKey := range c.snapshotKeys() {
			key, err := c.keys.Decode([]byte(encKey))
			if err != nil {
				log.Warningf("skipping undecodable key %q in %s: %v", encKey, c.dir, err)
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// Values iterates over the values of all live entries
func (c *Cache[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range c.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// snapshotKeys returns the encoded keys of all live entries (nil once closed)
func (c *Cache[K, V]) snapshotKeys() []string {
	if err := c.enter(); err != nil {
		return nil
	}
	defer c.leave()

	keys := make([]string, 0, c.disk.Len())
	c.disk.Range(func(key string) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// getEncoded reads one entry by its encoded key
func (c *Cache[K, V]) getEncoded(encKey string) ([]byte, bool, error) {
	if err := c.enter(); err != nil {
		return nil, false, err
	}
	defer c.leave()

	mu := c.stripe(encKey)
	mu.Lock()
	defer mu.Unlock()
	return c.getLocked(encKey)
}
