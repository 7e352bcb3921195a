package cache

// --------------------------------------------------------------------------
// Bulk operations
// --------------------------------------------------------------------------
//
// Bulk operations are not atomic. They take one key stripe at a time, commit
// every key that succeeds and report the others in one *BulkError.

// GetAll returns the live entries among keys. Absent keys are left out of
// the map. Keys that failed are reported in a *BulkError matching ErrBulkLoad,
// the map still holds all other hits.
func (c *Cache[K, V]) GetAll(keys []K) (map[K]V, error) {
	if err := c.enter(); err != nil {
		return nil, err
	}
	defer c.leave()

	result := make(map[K]V, len(keys))
	bulkErr := newBulkError[K](RetCBulkLoad)

	for _, key := range keys {
		var raw []byte
		var found bool
		err := c.withKey(key, func(encKey string) (err error) {
			raw, found, err = c.getLocked(encKey)
			return err
		})
		if err != nil {
			bulkErr.add(key, err)
			continue
		}
		if !found {
			continue
		}
		v, err := c.decodeValue(raw)
		if err != nil {
			bulkErr.add(key, err)
			continue
		}
		result[key] = v
	}
	return result, bulkErr.errorOrNil()
}

// PutAll stores all entries. Failed keys are reported in a *BulkError
// matching ErrBulkWrite.
func (c *Cache[K, V]) PutAll(entries map[K]V) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	bulkErr := newBulkError[K](RetCBulkWrite)
	for key, value := range entries {
		encValue, err := c.encodeValue(value)
		if err != nil {
			bulkErr.add(key, err)
			continue
		}
		err = c.withKey(key, func(encKey string) error {
			return c.putLocked(encKey, encValue)
		})
		if err != nil {
			bulkErr.add(key, err)
		}
	}
	return bulkErr.errorOrNil()
}

// RemoveAll removes all keys. Failed keys are reported in a *BulkError
// matching ErrBulkWrite.
func (c *Cache[K, V]) RemoveAll(keys []K) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	bulkErr := newBulkError[K](RetCBulkWrite)
	for _, key := range keys {
		err := c.withKey(key, func(encKey string) error {
			_, err := c.removeLocked(encKey)
			return err
		})
		if err != nil {
			bulkErr.add(key, err)
		}
	}
	return bulkErr.errorOrNil()
}
