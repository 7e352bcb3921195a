// Package util
//
// This file implements a bucketed size histogram. It is filled by sampling
// entries in GetInfo, so reporting never needs an exact full scan.
package util

import (
	"math"
	"sync"
)

// SizeHistogram tracks the distribution of record sizes in exponential buckets
// (64B up to 64MB, plus one overflow bucket).
type SizeHistogram struct {
	mutex      sync.RWMutex
	boundaries []int   // upper bounds (inclusive) of all but the last bucket
	buckets    []int64 // number of samples per bucket
	count      int64   // total number of samples
	sum        int64   // sum of all sampled sizes
	max        int     // largest sample
}

// NewSizeHistogram creates a histogram with buckets growing by a factor of 4
func NewSizeHistogram() *SizeHistogram {
	boundaries := make([]int, 0, 11)
	for b := 64; b <= 64<<20; b *= 4 {
		boundaries = append(boundaries, b)
	}
	return &SizeHistogram{
		boundaries: boundaries,
		buckets:    make([]int64, len(boundaries)+1),
	}
}

// AddSample records one size
//
// Thread-safety: This method is safe for concurrent use
func (h *SizeHistogram) AddSample(size int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	idx := len(h.boundaries)
	for i, boundary := range h.boundaries {
		if size <= boundary {
			idx = i
			break
		}
	}

	h.buckets[idx]++
	h.count++
	h.sum += int64(size)
	if size > h.max {
		h.max = size
	}
}

// Count returns the number of samples
func (h *SizeHistogram) Count() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

// AverageSize returns the mean of all samples
func (h *SizeHistogram) AverageSize() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// Percentile estimates the given percentile (0-100) as the midpoint of the bucket
// containing it. The overflow bucket reports the largest observed sample.
func (h *SizeHistogram) Percentile(p int) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.count == 0 || p < 0 || p > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(p) / 100.0))
	if target == 0 {
		target = 1
	}

	var cumulative int64
	for i, n := range h.buckets {
		cumulative += n
		if cumulative < target {
			continue
		}
		switch {
		case i == 0:
			return h.boundaries[0] / 2
		case i < len(h.boundaries):
			return (h.boundaries[i-1] + h.boundaries[i]) / 2
		default:
			return h.max
		}
	}
	return h.max
}

// Snapshot is a JSON friendly summary of a histogram
type Snapshot struct {
	Samples int64 `json:"samples"`
	Average int   `json:"average"`
	P50     int   `json:"p50"`
	P99     int   `json:"p99"`
	Max     int   `json:"max"`
}

// Snapshot summarizes the histogram
func (h *SizeHistogram) Snapshot() Snapshot {
	s := Snapshot{
		Samples: h.Count(),
		Average: h.AverageSize(),
		P50:     h.Percentile(50),
		P99:     h.Percentile(99),
	}
	h.mutex.RLock()
	s.Max = h.max
	h.mutex.RUnlock()
	return s
}
