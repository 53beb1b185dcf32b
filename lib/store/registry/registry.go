package registry

import (
	"io"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/store"
	"github.com/ValentinKolb/oKV/lib/store/lstore"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Operation Metrics
// --------------------------------------------------------------------------

// counters for every operation crossing the handle boundary
var (
	metricCreates   = metrics.NewCounter("okv_registry_creates_total")
	metricDestroys  = metrics.NewCounter("okv_registry_destroys_total")
	metricPuts      = metrics.NewCounter("okv_registry_puts_total")
	metricGets      = metrics.NewCounter("okv_registry_gets_total")
	metricGetHits   = metrics.NewCounter("okv_registry_get_hits_total")
	metricGetMisses = metrics.NewCounter("okv_registry_get_misses_total")
	metricDeletes   = metrics.NewCounter("okv_registry_deletes_total")
)

// WriteMetrics writes all collected operation counters in Prometheus text
// format to the given writer.
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}

// --------------------------------------------------------------------------
// Handle Registry
// --------------------------------------------------------------------------

// Handle is the opaque identifier a collaborator holds instead of a store
// reference. Zero is never a valid handle, so a forgotten initialization
// on the far side of a binding fails loudly instead of hitting a random
// store.
type Handle uint64

// Registry maps opaque handles to stores the way a language binding
// would: callers on the far side of the boundary only ever see integer
// handles, never the store's internal representation.
//
// The handle table itself is safe for concurrent use (bindings may
// create and destroy stores from different isolates), but each resolved
// store keeps its single-threaded contract - callers serialize all
// operations on one handle.
type Registry struct {
	stores *xsync.MapOf[Handle, store.IStore]
	next   atomic.Uint64
}

// NewRegistry creates an empty handle registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: xsync.NewMapOf[Handle, store.IStore](),
	}
}

// Create builds a new store from the factory and returns its handle.
func (r *Registry) Create(factory store.DBFactory) Handle {
	h := Handle(r.next.Add(1))
	r.stores.Store(h, lstore.NewLocalStore(factory))
	metricCreates.Inc()
	return h
}

// Resolve returns the store behind a handle. Unknown or already-destroyed
// handles are a caller programming error and yield RetCInvalidArgument.
func (r *Registry) Resolve(h Handle) (store.IStore, error) {
	st, ok := r.stores.Load(h)
	if !ok {
		return nil, store.NewError(store.RetCInvalidArgument, "unknown or destroyed store handle")
	}
	return st, nil
}

// Destroy closes the store behind a handle and removes it from the table.
// Destroying a handle twice fails with RetCInvalidArgument rather than
// touching freed state.
func (r *Registry) Destroy(h Handle) error {
	st, ok := r.stores.LoadAndDelete(h)
	if !ok {
		return store.NewError(store.RetCInvalidArgument, "unknown or destroyed store handle")
	}
	metricDestroys.Inc()
	return st.Close()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	return r.stores.Size()
}

// --------------------------------------------------------------------------
// Boundary Operations
// --------------------------------------------------------------------------

// The per-handle operations below are the surface a binding layer calls.
// They resolve the handle, tick the operation counters and forward to the
// store, so every crossing of the boundary is accounted for.

func (r *Registry) Put(h Handle, key, value []byte) error {
	st, err := r.Resolve(h)
	if err != nil {
		return err
	}
	metricPuts.Inc()
	return st.Put(key, value)
}

func (r *Registry) PutIfAbsent(h Handle, key, value []byte) (bool, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return false, err
	}
	metricPuts.Inc()
	return st.PutIfAbsent(key, value)
}

func (r *Registry) Get(h Handle, key []byte) ([]byte, bool, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return nil, false, err
	}
	metricGets.Inc()

	value, loaded, err := st.Get(key)
	if err == nil {
		if loaded {
			metricGetHits.Inc()
		} else {
			metricGetMisses.Inc()
		}
	}
	return value, loaded, err
}

func (r *Registry) Delete(h Handle, key []byte) (bool, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return false, err
	}
	metricDeletes.Inc()
	return st.Delete(key)
}

func (r *Registry) Has(h Handle, key []byte) (bool, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return false, err
	}
	return st.Has(key)
}

func (r *Registry) Size(h Handle) (int, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return 0, err
	}
	return st.Size()
}

func (r *Registry) Clear(h Handle) error {
	st, err := r.Resolve(h)
	if err != nil {
		return err
	}
	return st.Clear()
}

func (r *Registry) GetDBInfo(h Handle) (db.DatabaseInfo, error) {
	st, err := r.Resolve(h)
	if err != nil {
		return db.DatabaseInfo{}, err
	}
	return st.GetDBInfo()
}
