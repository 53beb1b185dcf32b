// Package cedar implements an in-process key-value engine backed by a
// single open addressing hash table. It provides a complete implementation
// of the db.Store interface with a focus on predictable memory ownership,
// a stable status-code protocol and load-factor driven resizing.
//
// The package focuses on:
//   - Open addressing with linear probing and tombstone deletion
//   - Amortized O(1) Put/Get/Delete/Has regardless of table history
//   - Strict copy-in / borrow-out memory ownership across the API boundary
//   - Atomic resizing: a failed grow leaves the table in its pre-resize state
//   - An explicit capacity budget that surfaces as StatusNoMem
//
// Key Components:
//
//   - cedarImpl: The engine structure implementing db.Store. It owns the
//     resize and shrink policy, validates arguments into the status
//     protocol and reports table statistics through GetInfo. The engine is
//     single-threaded by contract; callers serialize access per instance.
//
//   - internal.Table: The raw hash table. It manages the slot array,
//     probing, tombstones and rehashing, and owns every key and value
//     buffer. The table is policy-free: it enforces only the probe
//     invariant (used slots never exceed 3/4 of the capacity, so every
//     probe chain terminates at an empty slot).
//
//   - internal.Slot: One table position in one of three states: empty,
//     occupied or tombstone. Deletion tombstones a slot instead of
//     emptying it, so lookups for keys placed beyond the deleted slot in
//     the probe sequence still succeed. Tombstones are reclaimed by later
//     inserts on the same probe path and dropped wholesale by any rehash.
//
// Internal Mechanisms:
//
//   - Hashing: Keys are hashed with 64-bit FNV-1a mixed with a per-store
//     random seed (a MurmurHash3 hasher is available as an option). The
//     full hash is cached per slot so probe mismatches are rejected
//     without byte comparisons and rehashing never re-reads key bytes.
//     Hashing is deterministic within one instance, which is the only
//     correctness property lookups rely on.
//
//   - Growth: Before an insert that would push used slots (occupied plus
//     tombstones) past the 3/4 ceiling, the engine rehashes: at double
//     the capacity when the live count demands it, or at the same
//     capacity when tombstones alone crossed the ceiling. The replacement
//     table is fully built before it is swapped in, so the mapping is
//     never observable in a half-migrated state and a rejected grow
//     (StatusNoMem) leaves the old table untouched.
//
//   - Shrinking: A delete may shrink the table once fewer than a quarter
//     of the slots are live and the capacity is above the initial
//     minimum. The shrink target keeps the resulting load at or below
//     1/2, so a single following insert can never trigger an immediate
//     regrow (hysteresis). Shrinking is an optimization, not a
//     correctness requirement, and can be disabled via DBOptions.
//
//   - Capacity Budget: Go programs cannot observe allocator failure, so
//     the engine models memory exhaustion explicitly: DBOptions.MaxCapacity
//     bounds the slot count, and any growth past the bound fails with
//     StatusNoMem while the store stays in its last valid state. With a
//     zero budget the table grows without limit.
//
//   - Memory Ownership: Put copies the key (on first insert) and the
//     value into engine-owned buffers; an overwrite reuses the existing
//     value allocation when it is large enough. Get and Range return
//     borrowed views of those buffers, valid only until the next mutation
//     of the entry, Clear or Close. The engine never frees caller memory
//     and never hands out ownership of its own.
//
//   - Empty vs. Absent: The empty key ([]byte{}) and the empty value are
//     legal and distinct from absence; a nil key is rejected with
//     StatusInvalid (or false from Has, whose contract is a plain
//     boolean). Stored empty values are kept non-nil so a found empty
//     value never looks like a miss.
//
// Usage Example:
//
//	store := cedar.NewCedarDB(nil)
//	defer store.Close()
//
//	store.Put([]byte("name"), []byte("Alyssa"))
//
//	value, status := store.Get([]byte("name"))
//	if status == db.StatusOK {
//	    // value is a borrowed view - copy it before the next mutation
//	}
//
// For the collaborator-facing layer with Go-error reporting and
// use-after-close guarding, see lib/store/lstore; for opaque handles as
// they are passed across a language boundary, see lib/store/registry.
package cedar
