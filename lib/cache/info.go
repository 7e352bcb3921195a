package cache

import (
	"github.com/ValentinKolb/fcache/lib/db"
)

// Info describes a cache and both of its tiers
type Info struct {
	Dir     string          `json:"dir"`
	Entries int             `json:"entries"`
	Config  string          `json:"config"`
	Disk    db.DatabaseInfo `json:"disk"`
	Heap    db.DatabaseInfo `json:"heap"`
}

// Len returns the number of entries in the disk tier. Expired entries count
// until they are removed by a read or the reaper.
func (c *Cache[K, V]) Len() int {
	if err := c.enter(); err != nil {
		return 0
	}
	defer c.leave()
	return c.disk.Len()
}

// Info returns statistics about the cache
func (c *Cache[K, V]) Info() (Info, error) {
	if err := c.enter(); err != nil {
		return Info{}, err
	}
	defer c.leave()

	return Info{
		Dir:     c.dir,
		Entries: c.disk.Len(),
		Config:  c.cfg.String(),
		Disk:    c.disk.GetInfo(),
		Heap:    c.heap.GetInfo(),
	}, nil
}

// Compact rewrites the disk log so it only holds live entries.
// Expired entries are dropped on the way.
func (c *Cache[K, V]) Compact() error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if err := c.disk.Compact(); err != nil {
		return writeErr(err)
	}
	return nil
}
