// Package util provides supporting tools for db.Store implementations:
//
//   - BytesHasher: the hash function contract used by the table engines,
//     with two implementations (FNV-1a and 64-bit MurmurHash3)
//   - GenerateSeed: per-store random seed generation
//   - NextPowerOfTwo: capacity rounding for power-of-two tables
//   - SizeHistogram: value size distribution tracking for GetInfo reporting
//
// The helpers in this package are deliberately free of engine-specific
// types so they can be shared by any db.Store implementation.
package util
