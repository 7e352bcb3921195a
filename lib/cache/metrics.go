package cache

import (
	"io"

	"github.com/ValentinKolb/fcache/lib/db/engines/disk"
	"github.com/ValentinKolb/fcache/lib/db/engines/heap"
	"github.com/VictoriaMetrics/metrics"
)

// cacheMetrics is the metric set of one cache. Every cache owns its own set,
// so two caches in one process never share counters.
type cacheMetrics struct {
	set *metrics.Set

	heapHits *metrics.Counter
	diskHits *metrics.Counter
	misses   *metrics.Counter
	writes   *metrics.Counter
	removals *metrics.Counter
	clears   *metrics.Counter
}

func newCacheMetrics(prefix string, h *heap.Store, d *disk.Store) *cacheMetrics {
	set := metrics.NewSet()
	name := func(suffix string) string { return prefix + "_" + suffix }

	m := &cacheMetrics{
		set:      set,
		heapHits: set.NewCounter(name(`hits_total{tier="heap"}`)),
		diskHits: set.NewCounter(name(`hits_total{tier="disk"}`)),
		misses:   set.NewCounter(name("misses_total")),
		writes:   set.NewCounter(name("writes_total")),
		removals: set.NewCounter(name("removals_total")),
		clears:   set.NewCounter(name("clears_total")),
	}

	// tier gauges read the stats on every scrape
	diskGauge := func(suffix string, f func(disk.Stats) float64) {
		set.NewGauge(name(suffix), func() float64 { return f(d.Stats()) })
	}
	heapGauge := func(suffix string, f func(heap.Stats) float64) {
		set.NewGauge(name(suffix), func() float64 { return f(h.Stats()) })
	}

	diskGauge(`entries{tier="disk"}`, func(s disk.Stats) float64 { return float64(s.Entries) })
	diskGauge("disk_live_bytes", func(s disk.Stats) float64 { return float64(s.LiveBytes) })
	diskGauge("disk_dead_bytes", func(s disk.Stats) float64 { return float64(s.DeadBytes) })
	diskGauge("disk_log_bytes", func(s disk.Stats) float64 { return float64(s.LogBytes) })
	diskGauge("disk_max_bytes", func(s disk.Stats) float64 { return float64(s.MaxBytes) })
	diskGauge(`evictions_total{tier="disk"}`, func(s disk.Stats) float64 { return float64(s.Evictions) })
	diskGauge("expirations_total", func(s disk.Stats) float64 { return float64(s.Expirations) })
	diskGauge("compactions_total", func(s disk.Stats) float64 { return float64(s.Compactions) })
	diskGauge("checkpoints_total", func(s disk.Stats) float64 { return float64(s.Checkpoints) })
	diskGauge("recovery_full_scans_total", func(s disk.Stats) float64 { return float64(s.FullScans) })

	set.NewGauge(name(`entries{tier="heap"}`), func() float64 { return float64(h.Len()) })
	heapGauge(`evictions_total{tier="heap"}`, func(s heap.Stats) float64 { return float64(s.Evictions) })
	heapGauge("heap_max_entries", func(s heap.Stats) float64 { return float64(s.MaxEntries) })

	return m
}

// WriteMetrics writes the metrics of the cache in the Prometheus text format
func (c *Cache[K, V]) WriteMetrics(w io.Writer) {
	c.metrics.set.WritePrometheus(w)
}
