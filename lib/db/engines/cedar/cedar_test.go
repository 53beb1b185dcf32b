package cedar

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
)

// metadata gives tests access to the engine internals reported by GetInfo
func metadata(t *testing.T, store db.Store) *struct {
	Capacity        int     `json:"capacity"`
	InitialCapacity int     `json:"initial_capacity"`
	MaxCapacity     int     `json:"max_capacity"`
	Live            int     `json:"live"`
	Tombstones      int     `json:"tombstones"`
	LoadFactor      float64 `json:"load_factor"`
	MedianEntrySize int     `json:"median_entry_size"`
} {
	t.Helper()
	meta, ok := store.GetInfo().Metadata.(*struct {
		Capacity        int     `json:"capacity"`
		InitialCapacity int     `json:"initial_capacity"`
		MaxCapacity     int     `json:"max_capacity"`
		Live            int     `json:"live"`
		Tombstones      int     `json:"tombstones"`
		LoadFactor      float64 `json:"load_factor"`
		MedianEntrySize int     `json:"median_entry_size"`
	})
	if !ok {
		t.Fatalf("unexpected metadata type %T", store.GetInfo().Metadata)
	}
	return meta
}

func TestCapacityBudget(t *testing.T) {
	store := NewCedarDB(&DBOptions{
		InitialCapacity: 8,
		MaxCapacity:     8,
	})
	defer store.Close()

	// a capacity-8 table holds at most 6 entries (3/4 load ceiling)
	limit := 6
	for i := 0; i < limit; i++ {
		key := []byte(fmt.Sprintf("budget-key-%d", i))
		if status := store.Put(key, []byte("v")); status != db.StatusOK {
			t.Fatalf("Put %d within budget failed with %s", i, status)
		}
	}

	// the next insert needs growth past the budget and must fail atomically
	if status := store.Put([]byte("one-too-many"), []byte("v")); status != db.StatusNoMem {
		t.Fatalf("expected StatusNoMem past the budget, got %s", status)
	}

	// the failed put must not have disturbed the store
	if store.Size() != limit {
		t.Errorf("expected size %d after rejected put, got %d", limit, store.Size())
	}
	for i := 0; i < limit; i++ {
		key := []byte(fmt.Sprintf("budget-key-%d", i))
		if _, status := store.Get(key); status != db.StatusOK {
			t.Errorf("key %s lost after rejected put (%s)", key, status)
		}
	}
	if store.Has([]byte("one-too-many")) {
		t.Errorf("rejected put left a partial entry behind")
	}

	// overwrites need no growth and must still succeed at the budget
	if status := store.Put([]byte("budget-key-0"), []byte("overwritten")); status != db.StatusOK {
		t.Errorf("expected StatusOK for overwrite at the budget, got %s", status)
	}

	// deleting makes room again
	store.Delete([]byte("budget-key-1"))
	if status := store.Put([]byte("one-too-many"), []byte("v")); status != db.StatusOK {
		t.Errorf("expected StatusOK after delete freed a slot, got %s", status)
	}
}

func TestShrinkHysteresis(t *testing.T) {
	store := NewCedarDB(&DBOptions{
		InitialCapacity: 16,
		ShrinkOnDelete:  true,
	})
	defer store.Close()

	numKeys := 1024
	for i := 0; i < numKeys; i++ {
		store.Put([]byte(fmt.Sprintf("shrink-key-%d", i)), []byte("v"))
	}
	grownCapacity := metadata(t, store).Capacity
	if grownCapacity < numKeys {
		t.Fatalf("expected capacity >= %d after inserts, got %d", numKeys, grownCapacity)
	}

	// delete almost everything; the table must give memory back
	for i := 0; i < numKeys-4; i++ {
		store.Delete([]byte(fmt.Sprintf("shrink-key-%d", i)))
	}

	meta := metadata(t, store)
	if meta.Capacity >= grownCapacity {
		t.Errorf("expected capacity below %d after mass delete, got %d", grownCapacity, meta.Capacity)
	}
	if meta.Capacity < 16 {
		t.Errorf("shrink went below the initial capacity: %d", meta.Capacity)
	}

	// hysteresis: one insert after a shrink must not trigger a regrow
	capacityAfterShrink := meta.Capacity
	store.Put([]byte("post-shrink"), []byte("v"))
	if c := metadata(t, store).Capacity; c != capacityAfterShrink {
		t.Errorf("single insert after shrink changed capacity from %d to %d", capacityAfterShrink, c)
	}

	// the surviving keys are still intact
	for i := numKeys - 4; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("shrink-key-%d", i))
		if _, status := store.Get(key); status != db.StatusOK {
			t.Errorf("key %s lost across shrink (%s)", key, status)
		}
	}
}

func TestShrinkDisabled(t *testing.T) {
	store := NewCedarDB(&DBOptions{
		InitialCapacity: 16,
		ShrinkOnDelete:  false,
	})
	defer store.Close()

	numKeys := 512
	for i := 0; i < numKeys; i++ {
		store.Put([]byte(fmt.Sprintf("key-%d", i)), []byte("v"))
	}
	grownCapacity := metadata(t, store).Capacity

	for i := 0; i < numKeys; i++ {
		store.Delete([]byte(fmt.Sprintf("key-%d", i)))
	}

	if c := metadata(t, store).Capacity; c != grownCapacity {
		t.Errorf("capacity changed from %d to %d with shrinking disabled", grownCapacity, c)
	}
}

func TestClearResetsCapacity(t *testing.T) {
	store := NewCedarDB(&DBOptions{InitialCapacity: 16})
	defer store.Close()

	for i := 0; i < 1000; i++ {
		store.Put([]byte(fmt.Sprintf("key-%d", i)), []byte("v"))
	}
	if c := metadata(t, store).Capacity; c <= 16 {
		t.Fatalf("expected growth before Clear, capacity is %d", c)
	}

	store.Clear()

	meta := metadata(t, store)
	if meta.Capacity != 16 {
		t.Errorf("expected capacity 16 after Clear, got %d", meta.Capacity)
	}
	if meta.Live != 0 || meta.Tombstones != 0 {
		t.Errorf("expected an empty table after Clear, got live=%d tombstones=%d", meta.Live, meta.Tombstones)
	}
}

func TestBorrowedView(t *testing.T) {
	store := NewCedarDB(nil)
	defer store.Close()

	key := []byte("view-key")
	store.Put(key, []byte("before"))

	view, status := store.Get(key)
	if status != db.StatusOK {
		t.Fatalf("unexpected status %s", status)
	}
	if !bytes.Equal(view, []byte("before")) {
		t.Fatalf("unexpected value %s", view)
	}

	// a fresh Get after the overwrite reflects the new value; the old view
	// is invalidated by the mutation and must not be relied upon
	store.Put(key, []byte("after!"))
	view, _ = store.Get(key)
	if !bytes.Equal(view, []byte("after!")) {
		t.Errorf("expected view of the new value, got %s", view)
	}
}

func TestTombstonePurgeWithoutGrowth(t *testing.T) {
	store := NewCedarDB(&DBOptions{
		InitialCapacity: 64,
		MaxCapacity:     64,
		ShrinkOnDelete:  false,
	})
	defer store.Close()

	// churn the same small key set far past the load ceiling; tombstones
	// must be purged at constant capacity instead of demanding growth
	for round := 0; round < 100; round++ {
		for i := 0; i < 16; i++ {
			key := []byte(fmt.Sprintf("churn-%d-%d", round, i))
			if status := store.Put(key, []byte("v")); status != db.StatusOK {
				t.Fatalf("round %d: Put failed with %s", round, status)
			}
			if status := store.Delete(key); status != db.StatusOK {
				t.Fatalf("round %d: Delete failed with %s", round, status)
			}
		}
	}

	if store.Size() != 0 {
		t.Errorf("expected empty store after churn, got size %d", store.Size())
	}
	if c := metadata(t, store).Capacity; c != 64 {
		t.Errorf("expected capacity 64 after churn, got %d", c)
	}
}

func TestGetInfo(t *testing.T) {
	store := NewCedarDB(nil)
	defer store.Close()

	store.Put([]byte("info-key"), []byte("info-value"))

	info := store.GetInfo()
	if info.DbType != db.ImplCedar {
		t.Errorf("expected db type %s, got %s", db.ImplCedar, info.DbType)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("expected a positive size estimate, got %d", info.SizeBytes)
	}
	if !store.SupportsFeature(db.FeaturePut | db.FeatureGet | db.FeatureDelete | db.FeatureHas | db.FeatureClear | db.FeatureRange | db.FeaturePutIfAbsent) {
		t.Errorf("expected all advertised features to be supported")
	}
}

func TestSeedDeterminism(t *testing.T) {
	// a fixed seed must give identical behavior across instances
	a := NewCedarDB(&DBOptions{Seed: 42})
	b := NewCedarDB(&DBOptions{Seed: 42})
	defer a.Close()
	defer b.Close()

	for i := 0; i < 100; i++ {
		key := []byte(fmt.Sprintf("seed-key-%d", i))
		a.Put(key, key)
		b.Put(key, key)
	}

	for i := 0; i < 100; i++ {
		key := []byte(fmt.Sprintf("seed-key-%d", i))
		va, sa := a.Get(key)
		vb, sb := b.Get(key)
		if sa != sb || !bytes.Equal(va, vb) {
			t.Fatalf("instances with equal seeds diverged on key %s", key)
		}
	}
}
