// Package registry implements the opaque-handle layer a language binding
// sits on: a mapping from opaque integer handles to store.IStore
// instances, with no implicit process-wide singleton.
//
// The design mirrors how the store is consumed across a foreign-function
// boundary. The far side never holds a pointer into the store and never
// sees its internal layout - it holds a Handle, a plain uint64 it cannot
// dereference. Every operation crosses the boundary through the Registry,
// which resolves the handle, accounts the operation and forwards it.
//
// Key properties:
//
//   - Opaque handles: handles start at 1, so a zero-initialized handle on
//     the far side is always rejected. A destroyed handle is removed from
//     the table; reusing it fails with RetCInvalidArgument instead of
//     reaching freed state. Combined with the lstore liveness flag this
//     makes use-after-destroy a reported error at two independent layers.
//
//   - No implicit singleton: a Registry is an explicit, independently
//     owned object. Embedders create one per binding context; nothing in
//     this package maintains process-wide mutable state beyond the
//     operation counters.
//
//   - Concurrency: the handle table is an xsync.MapOf and safe for
//     concurrent use, because bindings may create and destroy stores from
//     different isolates. The stores behind the handles keep their
//     single-threaded contract; callers serialize per handle.
//
//   - Metrics: every boundary crossing ticks a VictoriaMetrics counter
//     (creates, destroys, puts, gets with hit/miss split, deletes).
//     WriteMetrics exposes them in Prometheus text format.
package registry
