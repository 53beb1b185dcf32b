package internal

import (
	"bytes"

	"github.com/ValentinKolb/oKV/lib/db/util"
)

// --------------------------------------------------------------------------
// Slot Types
// --------------------------------------------------------------------------

// SlotState distinguishes the three probe states of a slot. A tombstone
// marks a slot whose entry was deleted: it keeps probe chains intact so
// that lookups for keys placed beyond it still succeed, but it can be
// reclaimed by a later insert or a rehash.
type SlotState uint8

const (
	SlotEmpty     SlotState = iota // never used, terminates probe chains
	SlotOccupied                   // holds a live entry
	SlotTombstone                  // entry deleted, probe chains continue
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "Empty"
	case SlotOccupied:
		return "Occupied"
	case SlotTombstone:
		return "Tombstone"
	default:
		return "Unknown"
	}
}

// emptyValue is the shared backing for zero-length values. Stored values
// are always non-nil so a found empty value stays distinct from "absent".
var emptyValue = make([]byte, 0)

// Slot is one position in the table. Key and Value are table-owned copies;
// Hash caches the full 64-bit key hash so rehashing never re-reads key bytes
// and probe mismatches are rejected without a byte comparison.
type Slot struct {
	Key   []byte
	Value []byte
	Hash  uint64
	State SlotState
}

// SetValue overwrites the slot's value with a copy of v, reusing the
// existing allocation when it is large enough.
func (s *Slot) SetValue(v []byte) {
	if len(v) == 0 {
		s.Value = emptyValue
		return
	}
	if cap(s.Value) >= len(v) {
		s.Value = s.Value[:len(v)]
	} else {
		s.Value = make([]byte, len(v))
	}
	copy(s.Value, v)
}

// --------------------------------------------------------------------------
// Table Type (the raw open addressing hash table)
// --------------------------------------------------------------------------

// Load factor ceiling: used slots (occupied + tombstones) never exceed
// 3/4 of the capacity, so every probe chain ends at an empty slot and
// lookups cannot loop.
const (
	maxLoadNum = 3
	maxLoadDen = 4
)

// MaxEntries returns how many used slots a table of the given capacity may
// hold before an insert must trigger a rehash.
func MaxEntries(capacity int) int {
	return capacity * maxLoadNum / maxLoadDen
}

// Table is a power-of-two sized open addressing hash table with linear
// probing. It owns every key and value buffer it holds; the only
// references it hands out are borrowed views into occupied slots.
//
// The Table itself is policy-free: growth, shrinking and capacity budgets
// are decided by the engine on top of it. The one invariant the Table
// enforces internally is the probe invariant above.
type Table struct {
	slots []Slot // len(slots) is always a power of two
	live  int    // occupied slots
	used  int    // occupied + tombstone slots
	seed  uint64
	hash  util.BytesHasher
}

// NewTable creates an empty table. The capacity is rounded up to the next
// power of two.
func NewTable(capacity int, seed uint64, hasher util.BytesHasher) *Table {
	return &Table{
		slots: make([]Slot, util.NextPowerOfTwo(capacity)),
		seed:  seed,
		hash:  hasher,
	}
}

func (t *Table) Capacity() int   { return len(t.slots) }
func (t *Table) Live() int       { return t.live }
func (t *Table) Tombstones() int { return t.used - t.live }

// NeedsGrow reports whether one more insert into an empty slot would
// violate the probe invariant.
func (t *Table) NeedsGrow() bool {
	return t.used+1 > MaxEntries(len(t.slots))
}

// Lookup returns the occupied slot holding key, or nil. The returned
// pointer is a borrowed view, valid until the next mutation of the table.
func (t *Table) Lookup(key []byte) *Slot {
	h := t.hash(key, t.seed)
	mask := uint64(len(t.slots) - 1)

	for i := h & mask; ; i = (i + 1) & mask {
		s := &t.slots[i]
		switch s.State {
		case SlotEmpty:
			return nil
		case SlotOccupied:
			if s.Hash == h && bytes.Equal(s.Key, key) {
				return s
			}
		}
		// tombstones and mismatches keep the probe going
	}
}

// Insert places a new entry, copying key and value into table-owned
// buffers. The first tombstone on the probe path is reclaimed if there is
// one. The caller must have verified that key is absent and that
// NeedsGrow is false (or has rehashed).
func (t *Table) Insert(key, value []byte) {
	h := t.hash(key, t.seed)
	mask := uint64(len(t.slots) - 1)

	target := -1
	for i := h & mask; ; i = (i + 1) & mask {
		s := &t.slots[i]
		if s.State == SlotEmpty {
			if target < 0 {
				target = int(i)
				t.used++ // claiming a never-used slot
			}
			break
		}
		if s.State == SlotTombstone && target < 0 {
			target = int(i)
		}
	}

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	valueCopy := emptyValue
	if len(value) > 0 {
		valueCopy = make([]byte, len(value))
		copy(valueCopy, value)
	}

	t.slots[target] = Slot{
		Key:   keyCopy,
		Value: valueCopy,
		Hash:  h,
		State: SlotOccupied,
	}
	t.live++
}

// Delete removes the entry for key by marking its slot as a tombstone.
// The owned key and value buffers are released. Returns false if the key
// is absent.
func (t *Table) Delete(key []byte) bool {
	s := t.Lookup(key)
	if s == nil {
		return false
	}

	s.Key = nil
	s.Value = nil
	s.Hash = 0
	s.State = SlotTombstone
	t.live--
	return true
}

// Range calls fn with borrowed views of every occupied slot until fn
// returns false.
func (t *Table) Range(fn func(key, value []byte) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.State != SlotOccupied {
			continue
		}
		if !fn(s.Key, s.Value) {
			return
		}
	}
}

// Rehash builds a fresh table of the given capacity holding the same
// mapping. Entry buffers are moved, not copied, and tombstones are
// dropped. The receiver is left untouched, which makes a resize atomic
// from the engine's point of view: the engine swaps in the result only
// after it has been fully built.
func (t *Table) Rehash(newCapacity int) *Table {
	nt := &Table{
		slots: make([]Slot, util.NextPowerOfTwo(newCapacity)),
		seed:  t.seed,
		hash:  t.hash,
	}

	mask := uint64(len(nt.slots) - 1)
	for i := range t.slots {
		s := &t.slots[i]
		if s.State != SlotOccupied {
			continue
		}

		// no tombstones in the fresh table, first empty slot wins
		j := s.Hash & mask
		for nt.slots[j].State == SlotOccupied {
			j = (j + 1) & mask
		}
		nt.slots[j] = Slot{
			Key:   s.Key,
			Value: s.Value,
			Hash:  s.Hash,
			State: SlotOccupied,
		}
	}

	nt.live = t.live
	nt.used = t.live
	return nt
}

// Release drops every slot so the backing arrays can be collected.
// The table must not be used afterwards.
func (t *Table) Release() {
	t.slots = nil
	t.live = 0
	t.used = 0
}
