package cache

import (
	"bytes"
)

// --------------------------------------------------------------------------
// Single key operations
// --------------------------------------------------------------------------

// Get returns the value of key. It reports false for keys that were never
// written, removed, evicted or expired. A hit refreshes the access time.
func (c *Cache[K, V]) Get(key K) (V, bool, error) {
	var zero V
	if err := c.enter(); err != nil {
		return zero, false, err
	}
	defer c.leave()

	var raw []byte
	var found bool
	err := c.withKey(key, func(encKey string) (err error) {
		raw, found, err = c.getLocked(encKey)
		return err
	})
	if err != nil || !found {
		return zero, false, err
	}
	v, err := c.decodeValue(raw)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Put stores value under key, replacing any previous value.
// The write reaches the disk tier before Put returns.
func (c *Cache[K, V]) Put(key K, value V) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	encValue, err := c.encodeValue(value)
	if err != nil {
		return err
	}
	return c.withKey(key, func(encKey string) error {
		return c.putLocked(encKey, encValue)
	})
}

// ContainsKey reports whether key holds a live entry. It does not refresh
// the access time.
func (c *Cache[K, V]) ContainsKey(key K) (bool, error) {
	if err := c.enter(); err != nil {
		return false, err
	}
	defer c.leave()

	var found bool
	err := c.withKey(key, func(encKey string) error {
		found = c.disk.Has(encKey)
		return nil
	})
	return found, err
}

// Remove deletes key. Removing an absent key is not an error.
func (c *Cache[K, V]) Remove(key K) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	return c.withKey(key, func(encKey string) error {
		_, err := c.removeLocked(encKey)
		return err
	})
}

// Clear removes all entries. No other operation runs while Clear does.
func (c *Cache[K, V]) Clear() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}
	if err := c.disk.Clear(); err != nil {
		return writeErr(err)
	}
	_ = c.heap.Clear()
	c.metrics.clears.Inc()
	log.Infof("cleared cache in %s", c.dir)
	return nil
}

// --------------------------------------------------------------------------
// Conditional operations
// --------------------------------------------------------------------------
//
// Values are compared by their encoded bytes, which is why codecs must be
// deterministic.

// PutIfAbsent stores value only if key holds no live entry.
// It returns the present value and true if the key was taken.
func (c *Cache[K, V]) PutIfAbsent(key K, value V) (V, bool, error) {
	var zero V
	if err := c.enter(); err != nil {
		return zero, false, err
	}
	defer c.leave()

	encValue, err := c.encodeValue(value)
	if err != nil {
		return zero, false, err
	}

	var present []byte
	var loaded bool
	err = c.withKey(key, func(encKey string) (err error) {
		if present, loaded, err = c.getLocked(encKey); err != nil || loaded {
			return err
		}
		return c.putLocked(encKey, encValue)
	})
	if err != nil || !loaded {
		return zero, false, err
	}
	prev, err := c.decodeValue(present)
	return prev, true, err
}

// Replace stores value only if key holds a live entry.
// It returns the replaced value and whether a replacement happened.
func (c *Cache[K, V]) Replace(key K, value V) (V, bool, error) {
	var zero V
	if err := c.enter(); err != nil {
		return zero, false, err
	}
	defer c.leave()

	encValue, err := c.encodeValue(value)
	if err != nil {
		return zero, false, err
	}

	var previous []byte
	var replaced bool
	err = c.withKey(key, func(encKey string) (err error) {
		if previous, replaced, err = c.getLocked(encKey); err != nil || !replaced {
			return err
		}
		return c.putLocked(encKey, encValue)
	})
	if err != nil || !replaced {
		return zero, false, err
	}
	prev, err := c.decodeValue(previous)
	return prev, true, err
}

// CompareAndSwap stores newValue only if key currently holds oldValue
func (c *Cache[K, V]) CompareAndSwap(key K, oldValue, newValue V) (bool, error) {
	if err := c.enter(); err != nil {
		return false, err
	}
	defer c.leave()

	encOld, err := c.encodeValue(oldValue)
	if err != nil {
		return false, err
	}
	encNew, err := c.encodeValue(newValue)
	if err != nil {
		return false, err
	}

	var swapped bool
	err = c.withKey(key, func(encKey string) error {
		current, ok, err := c.getLocked(encKey)
		if err != nil || !ok || !bytes.Equal(current, encOld) {
			return err
		}
		if err := c.putLocked(encKey, encNew); err != nil {
			return err
		}
		swapped = true
		return nil
	})
	return swapped, err
}

// CompareAndRemove removes key only if it currently holds expected
func (c *Cache[K, V]) CompareAndRemove(key K, expected V) (bool, error) {
	if err := c.enter(); err != nil {
		return false, err
	}
	defer c.leave()

	encExpected, err := c.encodeValue(expected)
	if err != nil {
		return false, err
	}

	var removed bool
	err = c.withKey(key, func(encKey string) error {
		current, ok, err := c.getLocked(encKey)
		if err != nil || !ok || !bytes.Equal(current, encExpected) {
			return err
		}
		removed, err = c.removeLocked(encKey)
		return err
	})
	return removed, err
}

// GetOrCompute returns the value of key, or computes, stores and returns it
// if the key holds no live entry. The second result reports whether compute
// ran. compute runs with the key locked and must not call back into the cache.
// Its error is returned unchanged and nothing is stored.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, bool, error) {
	var zero V
	if err := c.enter(); err != nil {
		return zero, false, err
	}
	defer c.leave()

	var (
		result   V
		computed bool
	)
	err := c.withKey(key, func(encKey string) error {
		raw, ok, err := c.getLocked(encKey)
		if err != nil {
			return err
		}
		if ok {
			result, err = c.decodeValue(raw)
			return err
		}

		v, err := compute()
		if err != nil {
			return err
		}
		encValue, err := c.encodeValue(v)
		if err != nil {
			return err
		}
		if err := c.putLocked(encKey, encValue); err != nil {
			return err
		}
		result, computed = v, true
		return nil
	})
	if err != nil {
		return zero, false, err
	}
	return result, computed, nil
}
