// Package testing provides standardised tests and benchmarks for
// engine implementations that satisfy the db.Store interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the Store interface contract
//   - benchmark: Performance tests for measuring throughput of common store operations
//
// The test suite covers the full operation contract: put/get round-trips,
// overwrite semantics, delete-vs-absent status codes, tombstone-correct
// lookups after deletion, resize transparency under sustained growth,
// nil/empty key and value distinctions, and post-Clear usability.
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() db.Store {
//		return NewMyStore()
//	}
//
//	// Running the standard test suite
//	dbtesting.RunStoreTests(t, "MyStore", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunStoreBenchmarks(b, "MyStore", factory)
package testing
