// Package store defines the collaborator-facing interface of the key-value
// store and its error taxonomy.
//
// The core engines (lib/db) speak a uniform status-code protocol: every
// operation returns a db.Status and nothing is ever thrown. This package
// is where those codes are split into the two channels Go callers expect:
//
//   - Expected outcomes stay in the data path. A missing key is a normal
//     result of Get or Delete, reported through a boolean, never an error.
//   - Failures (exhausted capacity budget, invalid arguments, operations
//     on a destroyed store) become a *Error carrying a stable RetCode.
//
// Any binding that re-exposes this store in another environment must
// preserve that split: NOT_FOUND maps to a null/optional result,
// NO_MEM/INVALID map to thrown errors.
//
// The package also defines DBFactory, the injection point through which
// store implementations receive their engine, keeping the wrapper layer
// independent of any concrete engine package.
//
// Implementations:
//
//   - lstore (github.com/ValentinKolb/oKV/lib/store/lstore) wraps a single
//     engine instance in-process, adds the liveness guard that makes
//     use-after-destroy a reported error instead of undefined behavior,
//     and copies values crossing the boundary.
//
//   - registry (github.com/ValentinKolb/oKV/lib/store/registry) maps
//     opaque integer handles to stores the way a language binding would,
//     so callers on the far side of a foreign-function boundary never see
//     the store's internal representation.
package store
