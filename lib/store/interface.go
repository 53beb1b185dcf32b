package store

import (
	"fmt"

	"github.com/ValentinKolb/oKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new engine used by the store.
// This is used to abstract the creation of the engine from the store implementation.
type DBFactory func() db.Store

// IStore is the generic interface collaborators use to interact with a
// key-value store. It translates the core's uniform status-code protocol
// into Go's error idiom with a fixed policy split:
//
//   - Expected outcomes (the key was / was not there) are data, not
//     errors: Get returns loaded=false for an absent key, Delete returns
//     deleted=false, PutIfAbsent returns stored=false.
//   - Failures (NO_MEM, INVALID, operating on a closed store) are
//     returned as a *Error carrying the matching RetCode.
//
// Unlike the raw engine, an IStore copies values on the way out: the
// returned slices are owned by the caller and stay valid across later
// mutations.
type IStore interface {
	// Put inserts or updates a key-value pair.
	Put(key, value []byte) (err error)
	// PutIfAbsent inserts a key-value pair if the key does not exist.
	// The stored return value reports whether the pair was inserted;
	// an already-present key is not an error.
	PutIfAbsent(key, value []byte) (stored bool, err error)
	// Get returns a caller-owned copy of the value for a key. The loaded
	// return value reports whether the key was found.
	Get(key []byte) (value []byte, loaded bool, err error)
	// Delete removes a key-value pair. The deleted return value reports
	// whether an entry was removed; an absent key is not an error.
	Delete(key []byte) (deleted bool, err error)
	// Has returns whether a key exists in the store.
	Has(key []byte) (loaded bool, err error)
	// Size returns the number of live entries.
	Size() (count int, err error)
	// Clear removes every entry; the store remains usable afterwards.
	Clear() (err error)
	// Range calls fn with borrowed views of every entry until fn returns
	// false. fn must not retain or mutate the slices it is handed.
	Range(fn func(key, value []byte) bool) (err error)
	// GetDBInfo returns metadata about the engine underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
	// Close destroys the store, releasing every owned entry. Close is
	// safe to call exactly once; any operation afterwards (including a
	// second Close) fails with RetCClosed.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCNoMem                               // 1: Allocation failed or the capacity budget is exhausted.
	RetCInvalidArgument                     // 2: Nil/malformed argument or handle (caller programming error).
	RetCUnsupportedOperation                // 3: Operation is not supported by the underlying engine.
	RetCClosed                              // 4: The store was already destroyed.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCNoMem:
		return "NoMem"
	case RetCInvalidArgument:
		return "InvalidArgument"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// FromStatus converts an engine failure status into the matching *Error.
// It must only be called for statuses that the policy split classifies as
// exceptional; expected outcomes (NOT_FOUND, EXISTS) are handled as data
// by the store implementations.
func FromStatus(status db.Status, op string) *Error {
	switch status {
	case db.StatusNoMem:
		return NewError(RetCNoMem, fmt.Sprintf("%s: capacity budget exhausted", op))
	case db.StatusInvalid:
		return NewError(RetCInvalidArgument, fmt.Sprintf("%s: invalid argument", op))
	default:
		return NewError(RetCInvalidArgument, fmt.Sprintf("%s: unexpected status %s", op, status))
	}
}
