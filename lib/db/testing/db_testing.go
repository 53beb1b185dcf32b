package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
)

// DBFactory is a function that creates a new instance of a Store implementation
type DBFactory func() db.Store

// RunStoreTests runs a comprehensive test suite for a Store implementation.
func RunStoreTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("PutIfAbsent", func(t *testing.T) {
			testPutIfAbsent(t, factory())
		})

		t.Run("NilAndEmptyKeys", func(t *testing.T) {
			testNilAndEmptyKeys(t, factory())
		})

		t.Run("EmptyValue", func(t *testing.T) {
			testEmptyValue(t, factory())
		})

		t.Run("SizeMatchesHas", func(t *testing.T) {
			testSizeMatchesHas(t, factory())
		})

		t.Run("ResizeTransparency", func(t *testing.T) {
			testResizeTransparency(t, factory())
		})

		t.Run("DeleteThenLookup", func(t *testing.T) {
			testDeleteThenLookup(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the store supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, store db.Store, feature db.Feature) {
	if !store.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)

	testKey := []byte("test-key")
	testValue := []byte("test-value")

	if status := store.Put(testKey, testValue); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Put, got %s", status)
	}

	result, status := store.Get(testKey)
	if status != db.StatusOK {
		t.Errorf("Expected key %s to exist after Put, got %s", testKey, status)
	}
	if !bytes.Equal(result, testValue) {
		t.Errorf("Expected value %s, got %s", testValue, result)
	}

	_, status = store.Get([]byte("nonexistent-key"))
	if status != db.StatusNotFound {
		t.Errorf("Expected StatusNotFound for nonexistent key, got %s", status)
	}

	// the store must have copied the caller's buffers on Put
	testValue[0] = 'X'
	result, _ = store.Get(testKey)
	if bytes.Equal(result, testValue) {
		t.Errorf("Put should copy the value, not retain the caller's buffer")
	}
}

func testOverwrite(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)

	testKey := []byte("overwrite-key")
	testValue1 := []byte("first-value")
	testValue2 := []byte("second-value-that-is-longer")
	testValue3 := []byte("short")

	store.Put(testKey, testValue1)
	if store.Size() != 1 {
		t.Errorf("Expected size 1 after first Put, got %d", store.Size())
	}

	// overwriting must replace the value without changing the size
	store.Put(testKey, testValue2)
	if store.Size() != 1 {
		t.Errorf("Expected size 1 after overwrite, got %d", store.Size())
	}
	result, status := store.Get(testKey)
	if status != db.StatusOK || !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s after overwrite, got %s (%s)", testValue2, result, status)
	}

	// overwrite with a shorter value (exercises buffer reuse paths)
	store.Put(testKey, testValue3)
	result, status = store.Get(testKey)
	if status != db.StatusOK || !bytes.Equal(result, testValue3) {
		t.Errorf("Expected value %s after second overwrite, got %s (%s)", testValue3, result, status)
	}
}

func testDelete(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)
	requireFeature(t, store, db.FeatureDelete)

	testKey := []byte("delete-test-key")
	testValue := []byte("delete-test-value")

	store.Put(testKey, testValue)

	if status := store.Delete(testKey); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Delete, got %s", status)
	}

	if _, status := store.Get(testKey); status != db.StatusNotFound {
		t.Errorf("Expected key %s to not exist after Delete, got %s", testKey, status)
	}
	if store.Has(testKey) {
		t.Errorf("Expected key %s to not exist after Delete", testKey)
	}

	// deleting an absent key is an expected outcome, not an error
	sizeBefore := store.Size()
	if status := store.Delete(testKey); status != db.StatusNotFound {
		t.Errorf("Expected StatusNotFound from second Delete, got %s", status)
	}
	if store.Size() != sizeBefore {
		t.Errorf("Delete of absent key changed size from %d to %d", sizeBefore, store.Size())
	}
}

func testHas(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureDelete)
	requireFeature(t, store, db.FeatureHas)

	testKey := []byte("has-test-key")
	testValue := []byte("has-test-value")

	if store.Has(testKey) {
		t.Errorf("Expected Has to return false for nonexistent key")
	}

	store.Put(testKey, testValue)

	if !store.Has(testKey) {
		t.Errorf("Expected Has to return true after Put")
	}

	// Has never propagates INVALID, a nil key is simply false
	if store.Has(nil) {
		t.Errorf("Expected Has to return false for nil key")
	}

	store.Delete(testKey)

	if store.Has(testKey) {
		t.Errorf("Expected Has to return false after Delete")
	}
}

func testPutIfAbsent(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePutIfAbsent)
	requireFeature(t, store, db.FeatureGet)

	testKey := []byte("test-key")
	testValue1 := []byte("test-value")
	testValue2 := []byte("test-value2")

	if status := store.PutIfAbsent(testKey, testValue1); status != db.StatusOK {
		t.Errorf("Expected StatusOK from first PutIfAbsent, got %s", status)
	}

	result, status := store.Get(testKey)
	if status != db.StatusOK || !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s (%s)", testValue1, result, status)
	}

	// second insert must be rejected and leave the value untouched
	if status := store.PutIfAbsent(testKey, testValue2); status != db.StatusExists {
		t.Errorf("Expected StatusExists from second PutIfAbsent, got %s", status)
	}

	result, _ = store.Get(testKey)
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s after rejected insert, got %s", testValue1, result)
	}
}

func testNilAndEmptyKeys(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)
	requireFeature(t, store, db.FeatureDelete)

	// nil key is a caller programming error
	if status := store.Put(nil, []byte("x")); status != db.StatusInvalid {
		t.Errorf("Expected StatusInvalid from Put with nil key, got %s", status)
	}
	if _, status := store.Get(nil); status != db.StatusInvalid {
		t.Errorf("Expected StatusInvalid from Get with nil key, got %s", status)
	}
	if status := store.Delete(nil); status != db.StatusInvalid {
		t.Errorf("Expected StatusInvalid from Delete with nil key, got %s", status)
	}

	// the empty key is legal and distinct from absence
	if status := store.Put([]byte{}, []byte("x")); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Put with empty key, got %s", status)
	}

	result, status := store.Get([]byte{})
	if status != db.StatusOK {
		t.Errorf("Expected empty key to round-trip, got %s", status)
	}
	if !bytes.Equal(result, []byte("x")) {
		t.Errorf("Expected value x for empty key, got %s", result)
	}
	if store.Size() != 1 {
		t.Errorf("Expected size 1 with only the empty key present, got %d", store.Size())
	}
}

func testEmptyValue(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)

	testKey := []byte("empty-value-key")

	if status := store.Put(testKey, []byte{}); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Put with empty value, got %s", status)
	}

	result, status := store.Get(testKey)
	if status != db.StatusOK {
		t.Errorf("Expected key with empty value to be found, got %s", status)
	}
	if result == nil {
		t.Errorf("Expected a non-nil empty value, got nil")
	}
	if len(result) != 0 {
		t.Errorf("Expected empty value, got %s", result)
	}
}

func testSizeMatchesHas(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureDelete)
	requireFeature(t, store, db.FeatureHas)

	numKeys := 100
	for i := 0; i < numKeys; i++ {
		store.Put([]byte(fmt.Sprintf("size-key-%d", i)), []byte(fmt.Sprintf("size-value-%d", i)))
	}

	// delete a third of the keys
	for i := 0; i < numKeys; i += 3 {
		store.Delete([]byte(fmt.Sprintf("size-key-%d", i)))
	}

	// size must equal the number of keys Has reports as present
	hasCount := 0
	for i := 0; i < numKeys; i++ {
		if store.Has([]byte(fmt.Sprintf("size-key-%d", i))) {
			hasCount++
		}
	}

	if store.Size() != hasCount {
		t.Errorf("Size() = %d but Has reports %d present keys", store.Size(), hasCount)
	}
}

func testResizeTransparency(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)

	// enough distinct keys to force several grow cycles from a small table
	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("resize-key-%d", i))
		value := []byte(fmt.Sprintf("resize-value-%d", i))
		if status := store.Put(key, value); status != db.StatusOK {
			t.Fatalf("Put of key %d failed with %s", i, status)
		}
	}

	if store.Size() != numKeys {
		t.Errorf("Expected size %d after inserts, got %d", numKeys, store.Size())
	}

	// every previously-inserted key must survive the resizes unchanged
	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("resize-key-%d", i))
		expected := []byte(fmt.Sprintf("resize-value-%d", i))
		result, status := store.Get(key)
		if status != db.StatusOK {
			t.Errorf("Key %s lost after resize (%s)", key, status)
			continue
		}
		if !bytes.Equal(result, expected) {
			t.Errorf("Expected value %s for key %s, got %s", expected, key, result)
		}
	}
}

func testDeleteThenLookup(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)
	requireFeature(t, store, db.FeatureDelete)

	// interleave deletes with lookups so keys that probe past deleted
	// slots must still be found (tombstone behavior in open addressing)
	numKeys := 256
	for i := 0; i < numKeys; i++ {
		store.Put([]byte(fmt.Sprintf("probe-key-%d", i)), []byte(fmt.Sprintf("probe-value-%d", i)))
	}

	for i := 0; i < numKeys; i += 2 {
		if status := store.Delete([]byte(fmt.Sprintf("probe-key-%d", i))); status != db.StatusOK {
			t.Errorf("Delete of key %d failed with %s", i, status)
		}
	}

	for i := 0; i < numKeys; i++ {
		key := []byte(fmt.Sprintf("probe-key-%d", i))
		_, status := store.Get(key)
		if i%2 == 0 {
			if status != db.StatusNotFound {
				t.Errorf("Deleted key %s still found (%s)", key, status)
			}
		} else {
			if status != db.StatusOK {
				t.Errorf("Surviving key %s not found after neighbor deletes (%s)", key, status)
			}
		}
	}

	// re-inserting deleted keys must work and reclaim slots
	for i := 0; i < numKeys; i += 2 {
		key := []byte(fmt.Sprintf("probe-key-%d", i))
		if status := store.Put(key, []byte("reinserted")); status != db.StatusOK {
			t.Errorf("Re-insert of key %s failed with %s", key, status)
		}
	}
	if store.Size() != numKeys {
		t.Errorf("Expected size %d after re-inserts, got %d", numKeys, store.Size())
	}
}

func testClear(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureClear)

	numKeys := 500
	for i := 0; i < numKeys; i++ {
		store.Put([]byte(fmt.Sprintf("clear-key-%d", i)), []byte("v"))
	}

	store.Clear()

	if store.Size() != 0 {
		t.Errorf("Expected size 0 after Clear, got %d", store.Size())
	}
	for i := 0; i < numKeys; i++ {
		if store.Has([]byte(fmt.Sprintf("clear-key-%d", i))) {
			t.Errorf("Key clear-key-%d still present after Clear", i)
		}
	}

	// the store must remain fully usable after Clear
	if status := store.Put([]byte("after-clear"), []byte("works")); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Put after Clear, got %s", status)
	}
	result, status := store.Get([]byte("after-clear"))
	if status != db.StatusOK || !bytes.Equal(result, []byte("works")) {
		t.Errorf("Expected value works after Clear, got %s (%s)", result, status)
	}
}

func testRange(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureRange)

	expected := map[string]string{
		"range-a": "1",
		"range-b": "2",
		"range-c": "3",
	}
	for k, v := range expected {
		store.Put([]byte(k), []byte(v))
	}

	seen := make(map[string]string)
	store.Range(func(key, value []byte) bool {
		seen[string(key)] = string(value)
		return true
	})

	if len(seen) != len(expected) {
		t.Errorf("Expected %d entries from Range, got %d", len(expected), len(seen))
	}
	for k, v := range expected {
		if seen[k] != v {
			t.Errorf("Expected Range to yield %s=%s, got %s", k, v, seen[k])
		}
	}

	// early termination
	count := 0
	store.Range(func(key, value []byte) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Expected Range to stop after fn returns false, visited %d entries", count)
	}
}

func testRealisticUsage(t *testing.T, store db.Store) {
	defer store.Close()

	requireFeature(t, store, db.FeaturePut)
	requireFeature(t, store, db.FeatureGet)
	requireFeature(t, store, db.FeatureDelete)
	requireFeature(t, store, db.FeatureHas)

	// a small session mirroring how a binding layer drives the store
	store.Put([]byte("name"), []byte("Alyssa"))
	store.Put([]byte("language"), []byte("Dart"))

	result, status := store.Get([]byte("language"))
	if status != db.StatusOK || !bytes.Equal(result, []byte("Dart")) {
		t.Errorf("Expected language=Dart, got %s (%s)", result, status)
	}

	store.Put([]byte("language"), []byte("Rust"))

	result, status = store.Get([]byte("language"))
	if status != db.StatusOK || !bytes.Equal(result, []byte("Rust")) {
		t.Errorf("Expected language=Rust after overwrite, got %s (%s)", result, status)
	}
	if store.Size() != 2 {
		t.Errorf("Expected size 2, got %d", store.Size())
	}

	if status := store.Delete([]byte("language")); status != db.StatusOK {
		t.Errorf("Expected StatusOK from Delete, got %s", status)
	}
	if store.Size() != 1 {
		t.Errorf("Expected size 1 after Delete, got %d", store.Size())
	}
	if store.Has([]byte("language")) {
		t.Errorf("Expected language to be gone after Delete")
	}

	if status := store.Delete([]byte("language")); status != db.StatusNotFound {
		t.Errorf("Expected StatusNotFound from repeated Delete, got %s", status)
	}
}
