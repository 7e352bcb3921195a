// Package testing provides standardised tests and benchmarks for
// tier implementations that satisfy the db.KVDB interface.
//
// The package contains:
//   - testing: a conformance suite for the KVDB contract (copies, deletes, ranges, concurrency)
//   - benchmark: throughput measurements of the common tier operations
//
// Tests check SupportsFeature first and skip what a tier does not offer.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(tb testing.TB) db.KVDB {
//		return NewMyTier(tb.TempDir())
//	}
//
//	// Running the standard test suite
//	dbtesting.RunKVDBTests(t, "MyTier", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunKVDBBenchmarks(b, "MyTier", factory)
package testing
