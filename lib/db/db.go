package db

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplCedar Implementation = "cedar"
)

// Status is the stable result taxonomy of all engine operations.
// Engines never panic on bad input and never retry internally; every
// outcome is surfaced synchronously as one of these codes.
type Status uint8

const (
	StatusOK       Status = iota // Operation completed successfully
	StatusNoMem                  // Growth would exceed the configured capacity budget
	StatusNotFound               // The key is not present (expected outcome, not an error)
	StatusInvalid                // Nil/malformed argument (caller programming error)
	StatusExists                 // Insert-only operation found the key already present
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoMem:
		return "NO_MEM"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusInvalid:
		return "INVALID"
	case StatusExists:
		return "EXISTS"
	default:
		return "Unknown"
	}
}

// Feature represents engine features as bit flags
type Feature uint64

const (
	FeaturePut         Feature = 1 << iota // Support for Put operations
	FeaturePutIfAbsent                     // Support for PutIfAbsent operations
	FeatureGet                             // Support for Get operations
	FeatureDelete                          // Support for Delete operations
	FeatureHas                             // Support for Has operations
	FeatureClear                           // Support for Clear operations
	FeatureRange                           // Support for Range operations
)

func (f Feature) String() string {
	switch f {
	case FeaturePut:
		return "Put"
	case FeaturePutIfAbsent:
		return "PutIfAbsent"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureHas:
		return "Has"
	case FeatureClear:
		return "Clear"
	case FeatureRange:
		return "Range"
	default:
		return "Unknown"
	}
}

type DatabaseInfo struct {
	SizeBytes         int            `json:"size_bytes"`
	DbType            Implementation `json:"db_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Store Interface
// --------------------------------------------------------------------------

// Store defines the interface for in-process key-value engine implementations.
// Keys and values are uninterpreted byte sequences. A nil key is invalid and
// distinct from the legal empty key; a nil value is treated as the legal
// empty value.
//
// Ownership contract: the engine copies key and value bytes on every write,
// so callers keep ownership of their buffers. Get returns a borrowed view
// into engine-owned memory that is only valid until the next mutation of
// that key, Clear or Close - callers that retain data across mutations
// must copy it themselves (the lib/store layer does exactly that).
//
// Concurrency contract: a Store instance is single-threaded. Callers
// serialize all access to one instance; concurrent mutation is undefined
// behavior by contract.
type Store interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Put inserts or overwrites the mapping for key.
	// On overwrite the live entry count is unchanged; on insert it grows by
	// one and the table is resized first if the insert would push the load
	// factor past the engine's ceiling.
	// Returns StatusOK, StatusInvalid (nil key) or StatusNoMem (growth past
	// the capacity budget). A failed Put never leaves a partial entry behind.
	Put(key, value []byte) Status

	// PutIfAbsent inserts the mapping only if the key is not yet present.
	// Returns StatusExists when the key is already mapped; the stored value
	// is not touched in that case.
	PutIfAbsent(key, value []byte) Status

	// Delete removes the mapping for key.
	// Returns StatusOK when an entry was removed, StatusNotFound when the
	// key was absent (an expected outcome the caller branches on) and
	// StatusInvalid for a nil key.
	Delete(key []byte) Status

	// Clear removes every entry and resets the table to its initial
	// capacity. The store remains fully usable afterwards. Clear cannot
	// fail and therefore has no status channel.
	Clear()

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get looks up key and returns a borrowed view of the stored value.
	// The view must not be modified or retained past the next mutation of
	// that key. Returns StatusNotFound for an absent key and StatusInvalid
	// for a nil key; the value is nil in both cases.
	Get(key []byte) (value []byte, status Status)

	// Has reports whether key is mapped. It allocates nothing and has no
	// error channel: a nil key simply yields false.
	Has(key []byte) bool

	// Size returns the number of live entries, O(1).
	Size() int

	// Range calls fn for every entry until fn returns false. The key and
	// value slices are borrowed views; fn must not retain or mutate them.
	// Iteration order is unspecified.
	Range(fn func(key, value []byte) bool)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the engine implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the engine.
	GetInfo() (info DatabaseInfo)

	// Close releases every owned entry and the table storage itself.
	// The engine does not track a "closed" state - calling any other
	// operation after Close is a caller discipline violation that the
	// lib/store wrapper layer guards against with its own liveness flag.
	Close() (err error)
}
