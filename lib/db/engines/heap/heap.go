package heap

import (
	"fmt"
	"sync/atomic"

	"github.com/ValentinKolb/fcache/lib/db"
	"github.com/ValentinKolb/fcache/lib/db/util"
	lru "github.com/hashicorp/golang-lru"
)

// --------------------------------------------------------------------------
// Core heap tier structure
// --------------------------------------------------------------------------

// Store is the in-memory tier: a count-bounded LRU of encoded values.
// It never persists anything and eviction is silent. The disk tier stays the
// source of truth, so dropping an entry here only costs a disk read later.
type Store struct {
	maxEntries int
	lru        *lru.Cache

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a heap tier holding at most maxEntries values
//
// Thread-safety: the returned Store is safe for concurrent use.
func New(maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("heap tier: max entries must be positive, got %d", maxEntries)
	}
	cache, err := lru.New(maxEntries)
	if err != nil {
		return nil, fmt.Errorf("heap tier: %w", err)
	}
	return &Store{maxEntries: maxEntries, lru: cache}, nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods (docu see db.KVDB)
// --------------------------------------------------------------------------

func (s *Store) Set(key string, value []byte) error {
	if evicted := s.lru.Add(key, clone(value)); evicted {
		s.evictions.Add(1)
	}
	return nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	if !ok {
		s.misses.Add(1)
		return nil, false, nil
	}
	s.hits.Add(1)
	return clone(v.([]byte)), true, nil
}

func (s *Store) Has(key string) bool {
	return s.lru.Contains(key)
}

// Delete removes key from the tier.
// The check and the removal are two steps; callers serialize per key.
func (s *Store) Delete(key string) (bool, error) {
	if !s.lru.Contains(key) {
		return false, nil
	}
	s.lru.Remove(key)
	return true, nil
}

func (s *Store) Clear() error {
	s.lru.Purge()
	return nil
}

func (s *Store) Len() int {
	return s.lru.Len()
}

// Range visits the keys from least to most recently used
func (s *Store) Range(fn func(key string) bool) {
	for _, k := range s.lru.Keys() {
		if !fn(k.(string)) {
			return
		}
	}
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// Stats are the counters of the heap tier since it was created
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
	MaxEntries int    `json:"max_entries"`
}

// Stats returns a snapshot of the tier counters
func (s *Store) Stats() Stats {
	return Stats{
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Evictions:  s.evictions.Load(),
		MaxEntries: s.maxEntries,
	}
}

// GetInfo returns statistics about the tier. Sizes are estimated from a sample.
func (s *Store) GetInfo() db.DatabaseInfo {
	const maxSamples = 1000

	histogram := util.NewSizeHistogram()
	keys := s.lru.Keys()
	for i, k := range keys {
		if i >= maxSamples {
			break
		}
		if v, ok := s.lru.Peek(k); ok {
			histogram.AddSample(len(k.(string)) + len(v.([]byte)))
		}
	}

	meta := &struct {
		Stats
		Sizes util.Snapshot `json:"sizes"`
		Info  string        `json:"info"`
	}{
		Stats: s.Stats(),
		Sizes: histogram.Snapshot(),
		Info:  "SizeBytes is estimated from a sample of at most 1000 entries.",
	}

	return db.DatabaseInfo{
		Entries:   len(keys),
		SizeBytes: int64(histogram.AverageSize()) * int64(len(keys)),
		DbType:    db.ImplHeap,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureHas, db.FeatureDelete,
			db.FeatureClear, db.FeatureRange, db.FeatureEvict,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (s *Store) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureHas |
		db.FeatureDelete |
		db.FeatureClear |
		db.FeatureRange |
		db.FeatureEvict
	return supportedFeatures&feature == feature
}

// Close drops all entries
func (s *Store) Close() error {
	s.lru.Purge()
	return nil
}

func clone(b []byte) []byte {
	return append(make([]byte, 0, len(b)), b...)
}
