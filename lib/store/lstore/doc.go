// Package lstore implements a local, in-memory, single-process key-value
// store based on the store.IStore interface. It provides a thin wrapper
// around any db.Store engine with lifecycle guarding and boundary-safe
// memory semantics. Data is stored entirely in memory and is not persisted
// between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Direct integration with db.Store engine implementations
//   - Liveness guarding: operations on a destroyed store are reported
//     errors, never undefined behavior
//   - Feature detection to handle unsupported operations gracefully
//   - Value copies on read, so callers never alias engine-owned memory
//
// Implementation Details:
//
//   - Liveness Guarding: The core engines deliberately do not track a
//     "destroyed" state - by contract that is the collaborator layer's
//     job. This store maintains an atomic liveness flag: Close flips it
//     exactly once, and every subsequent operation (including a second
//     Close) fails with RetCClosed instead of touching freed state.
//
//   - Error Policy Split: The engine's uniform status codes are split
//     into expected and exceptional outcomes here. NOT_FOUND and EXISTS
//     become booleans in the data path; NO_MEM and INVALID become
//     *store.Error values. Bindings that re-throw these as exceptions
//     must preserve that split.
//
//   - Boundary Copies: Engine reads return borrowed views that are only
//     valid until the next mutation. Get therefore copies the value
//     before returning it, so IStore callers own what they receive. The
//     one exception is Range, which passes the borrowed views straight
//     through for efficiency - its callback contract forbids retaining
//     them.
//
//   - Feature Detection: Before executing operations, the store checks if
//     the underlying db.Store implementation supports the requested
//     feature through the SupportsFeature method. Unsupported operations
//     return appropriate error codes rather than failing silently.
//
//   - Composition Architecture: The store follows a composition pattern
//     where the store.DBFactory factory function injects the underlying
//     db.Store implementation. This allows the store to work with any
//     db.Store-compatible engine without modification.
//
// Thread Safety:
//
//	The liveness flag uses atomic operations, but the store inherits the
//	engine's single-threaded contract: callers serialize all access to one
//	instance. One store per worker is the recommended pattern for
//	concurrent workloads.
//
// Usage Example:
//
//	// Create a store with a cedar engine backend
//	factory := func() db.Store { return cedar.NewCedarDB(nil) }
//	st := lstore.NewLocalStore(factory)
//
//	// Store and read back a value
//	err := st.Put([]byte("session:123"), sessionData)
//	value, loaded, err := st.Get([]byte("session:123"))
//
//	// Destroy exactly once; later calls error out with RetCClosed
//	err = st.Close()
package lstore
