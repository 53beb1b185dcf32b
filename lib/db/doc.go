// Package db provides a standardized interface for in-process key-value
// engine implementations. It defines the Store interface that allows for
// consistent interaction with various engine backends while abstracting
// implementation details.
//
// The package focuses on:
//   - A unified interface for key-value operations over opaque byte values
//   - A stable status-code taxonomy shared by all engines
//   - Feature discovery through capability flags
//   - Standardized metadata reporting
//
// Key Components:
//
//   - Store Interface: The core interface that all engine implementations
//     must satisfy. It provides the full entry lifecycle (Put, PutIfAbsent,
//     Get, Delete, Has, Size, Clear, Range) plus metadata retrieval
//     (GetInfo) and teardown (Close).
//
//   - Status Codes: The Status type defines the uniform result protocol of
//     the core: StatusOK, StatusNoMem, StatusNotFound, StatusInvalid and
//     StatusExists. NOT_FOUND is an expected outcome callers branch on;
//     NO_MEM and INVALID signal failures. The split between expected and
//     exceptional outcomes is applied by the lib/store wrapper layer - the
//     core itself is uniformly status-based.
//
//   - Feature Flags: The Feature type defines capability flags that
//     implementations advertise through the SupportsFeature method, so
//     clients can discover supported operations at runtime.
//
//   - Implementation Identifiers: The Implementation type provides string
//     constants for the different engine backends (currently "cedar").
//
// Note on Memory Ownership:
//
// The core follows a strict two-tier ownership model. Every byte sequence
// an engine accepts through a write operation is copied into engine-owned
// memory; the caller's buffers are never retained. In the other direction,
// Get and Range hand out borrowed views of engine-owned memory that stay
// valid only until the next mutation of the entry (or Clear/Close) - they
// are never transferred-ownership buffers and must not be modified or
// freed by the receiver. Collaborators that need to keep data across
// mutations copy it on their side of the boundary.
//
// Note on Concurrency:
//
// A Store instance is single-threaded by contract. No operation blocks,
// suspends or performs I/O; every operation is synchronous and bounded by
// the current table size (O(1) amortized for Put/Get/Delete/Has, O(n) for
// Clear/Range/Close). Callers that share an instance across goroutines
// must serialize access externally - one instance per worker is the
// recommended pattern.
//
// Related Packages:
//
// The engines/cedar package (github.com/ValentinKolb/oKV/lib/db/engines/cedar)
// provides the reference implementation of the Store interface: an open
// addressing hash table with linear probing, tombstone deletion and
// load-factor driven resizing.
//
// The testing package (github.com/ValentinKolb/oKV/lib/db/testing) provides
// standardized tests and benchmarks for engine implementations:
//   - RunStoreTests: Runs a standardized test suite to validate implementations
//   - RunStoreBenchmarks: Provides performance benchmarks for comparing implementations
package db
