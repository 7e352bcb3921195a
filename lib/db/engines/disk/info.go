package disk

import (
	"github.com/ValentinKolb/fcache/lib/db"
	"github.com/ValentinKolb/fcache/lib/db/util"
)

// Stats is a snapshot of the store's counters and byte totals
type Stats struct {
	Entries        int    `json:"entries"`
	LiveBytes      int64  `json:"live_bytes"`
	DeadBytes      int64  `json:"dead_bytes"`
	LogBytes       int64  `json:"log_bytes"`
	MaxBytes       int64  `json:"max_bytes"`
	Generation     uint64 `json:"generation"`
	Evictions      uint64 `json:"evictions"`
	Expirations    uint64 `json:"expirations"`
	Compactions    uint64 `json:"compactions"`
	Checkpoints    uint64 `json:"checkpoints"`
	FullScans      uint64 `json:"full_scans"`
	TruncatedBytes uint64 `json:"truncated_bytes"`
}

// Stats returns the current counters
//
// Thread-safety: This method is safe for concurrent use
func (s *Store) Stats() Stats {
	s.mu.Lock()
	st := Stats{
		Entries:    s.index.Size(),
		LiveBytes:  s.liveBytes,
		DeadBytes:  s.deadBytes,
		LogBytes:   s.logSize,
		MaxBytes:   s.opts.MaxBytes,
		Generation: s.generation,
	}
	s.mu.Unlock()

	st.Evictions = s.stats.evictions.Load()
	st.Expirations = s.stats.expirations.Load()
	st.Compactions = s.stats.compactions.Load()
	st.Checkpoints = s.stats.checkpoints.Load()
	st.FullScans = s.stats.fullScans.Load()
	st.TruncatedBytes = s.stats.truncatedBytes.Load()
	return st
}

// GetInfo returns statistics about the store. Byte totals are exact, the record
// size distribution is sampled.
func (s *Store) GetInfo() db.DatabaseInfo {
	const maxSamples = 1000

	histogram := util.NewSizeHistogram()
	expired := 0
	samples := 0
	s.index.Range(func(_ string, e indexEntry) bool {
		histogram.AddSample(int(e.size))
		if s.expired(e) {
			expired++
		}
		samples++
		return samples < maxSamples
	})

	stats := s.Stats()

	var expiredBacklog float64
	if samples > 0 {
		expiredBacklog = float64(expired) / float64(samples)
	}

	meta := &struct {
		Stats
		Dir            string        `json:"dir"`
		RecordSizes    util.Snapshot `json:"record_sizes"`
		ExpiredBacklog float64       `json:"expired_backlog"`
		Info           string        `json:"info"`
	}{
		Stats:          stats,
		Dir:            s.dir,
		RecordSizes:    histogram.Snapshot(),
		ExpiredBacklog: expiredBacklog, // share of sampled entries that are expired but not removed yet
		Info:           "record_sizes and expired_backlog are estimated from a sample of at most 1000 entries.",
	}

	return db.DatabaseInfo{
		Entries:   stats.Entries,
		SizeBytes: stats.LogBytes,
		DbType:    db.ImplDisk,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureHas, db.FeatureDelete,
			db.FeatureClear, db.FeatureRange, db.FeatureExpire,
			db.FeaturePersist, db.FeatureEvict,
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
		db.FeatureExpire |
		db.FeaturePersist |
		db.FeatureEvict
	return supportedFeatures&feature == feature
}
