// Package db defines the byte-level interface shared by the two storage tiers of
// the cache.
//
// Key Components:
//
//   - KVDB Interface: Set, Get, Has, Delete, Clear, Len and Range over encoded keys and
//     values. The cache facade owns encoding and per-key locking, the tiers only store bytes.
//
//   - Feature Flags: The Feature type defines capability flags that implementations
//     advertise through SupportsFeature, so shared tests can skip what a tier does not do
//     (the heap tier does not persist, the disk tier does).
//
//   - Database Information: DatabaseInfo reports entry count, size and
//     implementation-specific metadata. Sizes may be estimates.
//
// Implementations:
//
//   - engines/heap: a count-bounded LRU held in memory.
//   - engines/disk: an append-only log with a checkpointed index, expiry and compaction.
//
// The testing package (github.com/ValentinKolb/fcache/lib/db/testing) runs the same
// conformance suite and benchmarks against both.
package db
