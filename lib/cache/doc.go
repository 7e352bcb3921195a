/*
Package cache implements fcache, an embedded two-tier key-value cache.

A Cache keeps every entry in a durable, size-bounded disk tier and the most
recently used values in a count-bounded heap tier. Reads consult the disk
index first and serve the value from memory when possible. Writes go to disk
before they reach memory. The disk tier evicts the least recently accessed
entries once MaxDiskBytes is exceeded and expires entries by time-to-live
and time-to-idle.

Keys and values are converted to bytes by codecs (see package codec). Codecs
must be deterministic, the compare-and-swap family compares encoded bytes.

Usage:

	c, err := cache.Open("/var/cache/app", cache.DefaultConfig(), codec.String(), codec.JSON[User]())
	if err != nil {
		return err
	}
	defer c.Close()

	_ = c.Put("alice", User{Name: "Alice"})
	u, ok, err := c.Get("alice")

Only one Cache may use a directory at a time, the directory is locked while
the cache is open. Errors carry a RetCode and can be matched with errors.Is
against the package sentinels.
*/
package cache
