package cedar

import (
	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/db/engines/cedar/internal"
	"github.com/ValentinKolb/oKV/lib/db/util"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for table behavior and structure
const (
	// DefaultInitialCapacity is the slot count of a fresh table. Clear
	// resets the table back to this size (or the configured override).
	DefaultInitialCapacity = 16

	// shrinkDen: a delete may shrink the table once fewer than
	// capacity/shrinkDen entries are live. The shrink target keeps the
	// post-shrink load at or below 1/2, so a single following insert can
	// never bounce the table straight back up (hysteresis).
	shrinkDen = 4
)

// --------------------------------------------------------------------------
// Core Cedar engine structure
// --------------------------------------------------------------------------

// cedarImpl implements db.Store with a single open addressing hash table
type cedarImpl struct {
	initialCapacity int
	maxCapacity     int // slot budget, 0 = unbounded
	shrinkOnDelete  bool
	seed            uint64
	hasher          util.BytesHasher
	table           *internal.Table
}

// DBOptions configures the cedarImpl behavior during initialization
type DBOptions struct {
	InitialCapacity int              // Slot count of a fresh table (0 = DefaultInitialCapacity)
	MaxCapacity     int              // Upper bound on the slot count; growth past it fails with StatusNoMem (0 = unbounded)
	ShrinkOnDelete  bool             // Whether deletes may shrink a mostly-empty table
	Hasher          util.BytesHasher // Hash function (nil = FNV-1a)
	Seed            uint64           // Hash seed (0 = random per instance)
}

// DefaultOptions returns the default cedarImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		InitialCapacity: DefaultInitialCapacity,
		MaxCapacity:     0,
		ShrinkOnDelete:  true,
		Hasher:          util.HashBytes,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewCedarDB creates a new cedar engine instance with the specified
// options (optional). The engine starts empty with a small table and is
// single-threaded by contract; see the db.Store documentation.
func NewCedarDB(opts *DBOptions) db.Store {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}

	initialCapacity := opts.InitialCapacity
	if initialCapacity <= 0 {
		initialCapacity = DefaultInitialCapacity
	}
	initialCapacity = util.NextPowerOfTwo(initialCapacity)

	maxCapacity := opts.MaxCapacity
	if maxCapacity > 0 {
		// the budget can never undercut the initial table
		maxCapacity = util.NextPowerOfTwo(maxCapacity)
		if maxCapacity < initialCapacity {
			maxCapacity = initialCapacity
		}
	}

	hasher := opts.Hasher
	if hasher == nil {
		hasher = util.HashBytes
	}

	seed := opts.Seed
	if seed == 0 {
		seed = util.GenerateSeed()
	}

	return &cedarImpl{
		initialCapacity: initialCapacity,
		maxCapacity:     maxCapacity,
		shrinkOnDelete:  opts.ShrinkOnDelete,
		seed:            seed,
		hasher:          hasher,
		table:           internal.NewTable(initialCapacity, seed, hasher),
	}
}

// --------------------------------------------------------------------------
// Resize Policy
// --------------------------------------------------------------------------

// ensureRoom makes space for one more entry. It rehashes at double the
// capacity when the live count genuinely demands growth, or at the same
// capacity when tombstones alone crossed the load ceiling. The rehash is
// built completely before it is swapped in, so on StatusNoMem the table
// is left exactly as it was.
func (c *cedarImpl) ensureRoom() db.Status {
	if !c.table.NeedsGrow() {
		return db.StatusOK
	}

	newCapacity := c.table.Capacity()
	if c.table.Live()+1 > internal.MaxEntries(newCapacity) {
		newCapacity *= 2
	}

	if c.maxCapacity > 0 && newCapacity > c.maxCapacity {
		return db.StatusNoMem
	}

	c.table = c.table.Rehash(newCapacity)
	return db.StatusOK
}

// maybeShrink gives memory back after a delete once the table is mostly
// empty. The target capacity leaves the load at <= 1/2 so the shrink
// cannot immediately be undone by the next insert.
func (c *cedarImpl) maybeShrink() {
	if !c.shrinkOnDelete {
		return
	}

	capacity := c.table.Capacity()
	if capacity <= c.initialCapacity || c.table.Live() >= capacity/shrinkDen {
		return
	}

	newCapacity := util.NextPowerOfTwo(c.table.Live() * 2)
	if newCapacity < c.initialCapacity {
		newCapacity = c.initialCapacity
	}
	if newCapacity < capacity {
		c.table = c.table.Rehash(newCapacity)
	}
}

// --------------------------------------------------------------------------
// Core Store Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Put inserts or overwrites the mapping for key (docu see db.Store).
// Overwrites reuse the existing value buffer when it is large enough.
func (c *cedarImpl) Put(key, value []byte) db.Status {
	if key == nil {
		return db.StatusInvalid
	}

	if slot := c.table.Lookup(key); slot != nil {
		slot.SetValue(value)
		return db.StatusOK
	}

	if status := c.ensureRoom(); status != db.StatusOK {
		return status
	}

	c.table.Insert(key, value)
	return db.StatusOK
}

// PutIfAbsent inserts the mapping only if key is not yet present
// (docu see db.Store).
func (c *cedarImpl) PutIfAbsent(key, value []byte) db.Status {
	if key == nil {
		return db.StatusInvalid
	}

	if c.table.Lookup(key) != nil {
		return db.StatusExists
	}

	if status := c.ensureRoom(); status != db.StatusOK {
		return status
	}

	c.table.Insert(key, value)
	return db.StatusOK
}

// Delete removes the mapping for key (docu see db.Store). The slot is
// tombstoned so probe chains through it stay intact.
func (c *cedarImpl) Delete(key []byte) db.Status {
	if key == nil {
		return db.StatusInvalid
	}

	if !c.table.Delete(key) {
		return db.StatusNotFound
	}

	c.maybeShrink()
	return db.StatusOK
}

// Clear removes every entry and resets the table to its initial capacity
// (docu see db.Store).
func (c *cedarImpl) Clear() {
	old := c.table
	c.table = internal.NewTable(c.initialCapacity, c.seed, c.hasher)
	if old != nil {
		old.Release()
	}
}

// --------------------------------------------------------------------------
// Core Store Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get returns a borrowed view of the value for key (docu see db.Store).
// The view is invalidated by the next mutation of that key, Clear or Close.
func (c *cedarImpl) Get(key []byte) ([]byte, db.Status) {
	if key == nil {
		return nil, db.StatusInvalid
	}

	slot := c.table.Lookup(key)
	if slot == nil {
		return nil, db.StatusNotFound
	}

	return slot.Value, db.StatusOK
}

// Has reports whether key is mapped (docu see db.Store). A nil key yields
// false instead of a status, the contract here is a plain boolean.
func (c *cedarImpl) Has(key []byte) bool {
	if key == nil {
		return false
	}
	return c.table.Lookup(key) != nil
}

// Size returns the live entry count (docu see db.Store).
func (c *cedarImpl) Size() int {
	return c.table.Live()
}

// Range iterates all entries with borrowed views (docu see db.Store).
func (c *cedarImpl) Range(fn func(key, value []byte) bool) {
	c.table.Range(fn)
}

// --------------------------------------------------------------------------
// Store Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the engine
func (c *cedarImpl) GetInfo() db.DatabaseInfo {

	// sample key+value sizes into a histogram for the size estimate
	histogram := util.NewSizeHistogram()
	c.table.Range(func(key, value []byte) bool {
		histogram.AddSample(len(key) + len(value))
		return true
	})

	// 40 bytes of slot bookkeeping: two slice headers, hash, state + padding
	const slotOverhead = 40
	sizeBytes := histogram.AverageSize()*c.table.Live() + slotOverhead*c.table.Capacity()

	loadFactor := 0.0
	if c.table.Capacity() > 0 {
		loadFactor = float64(c.table.Live()) / float64(c.table.Capacity())
	}

	// Metadata for this specific engine implementation
	meta := &struct {
		Capacity        int     `json:"capacity"`
		InitialCapacity int     `json:"initial_capacity"`
		MaxCapacity     int     `json:"max_capacity"`
		Live            int     `json:"live"`
		Tombstones      int     `json:"tombstones"`
		LoadFactor      float64 `json:"load_factor"`
		MedianEntrySize int     `json:"median_entry_size"`
	}{
		Capacity:        c.table.Capacity(),
		InitialCapacity: c.initialCapacity,
		MaxCapacity:     c.maxCapacity,
		Live:            c.table.Live(),
		Tombstones:      c.table.Tombstones(),
		LoadFactor:      loadFactor,
		MedianEntrySize: histogram.MedianEstimate(),
	}

	// features
	supportedFeatures := []db.Feature{
		db.FeaturePut, db.FeaturePutIfAbsent,
		db.FeatureGet, db.FeatureHas,
		db.FeatureDelete, db.FeatureClear,
		db.FeatureRange,
	}

	return db.DatabaseInfo{
		SizeBytes:         sizeBytes,
		DbType:            db.ImplCedar,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific Store feature
func (c *cedarImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeaturePut |
		db.FeaturePutIfAbsent |
		db.FeatureGet |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureClear |
		db.FeatureRange
	return supportedFeatures&feature == feature
}

// Close releases the table and every owned entry
func (c *cedarImpl) Close() error {
	if c.table != nil {
		c.table.Release()
	}
	return nil
}
