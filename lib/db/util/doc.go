// Package util provides utility components for the tier implementations that
// satisfy the db.KVDB interface.
//
// The package contains:
//   - functions: key digests (xxhash), lock striping, seeds and the Clock abstraction
//   - mapheap: a min-heap with key-based access, used for the disk eviction order
//   - statistics: a SizeHistogram for sampled size reporting in GetInfo
//
// Nothing in here knows about files or tiers, the components are plain data structures.
package util
