package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
)

// RunStoreBenchmarks runs all benchmarks for a key-value engine implementation.
// The benchmarks drive a single instance sequentially - the db.Store contract
// is single-threaded, so there is no parallel variant here. Workloads that
// want parallelism run one instance per goroutine (see cmd/bench).
func RunStoreBenchmarks(b *testing.B, name string, factory DBFactory) {

	b.Run("Put", func(b *testing.B) {
		benchmarkPut(b, factory())
	})

	b.Run("PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory())
	})

	b.Run("PutLargeValue", func(b *testing.B) {
		benchmarkPutLargeValue(b, factory())
	})

	b.Run("Get", func(b *testing.B) {
		benchmarkGet(b, factory())
	})

	b.Run("Delete", func(b *testing.B) {
		benchmarkDelete(b, factory())
	})

	b.Run("Has", func(b *testing.B) {
		benchmarkHas(b, factory())
	})

	b.Run("Has(not)", func(b *testing.B) {
		benchmarkHasNot(b, factory())
	})

	b.Run("MixedUsage", func(b *testing.B) {
		benchmarkMixedUsage(b, factory())
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Put operation with distinct keys (includes resizes)
func benchmarkPut(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)

	keys := makeKeys(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Put(keys[i], keys[i])
	}
}

// Benchmark for Put operation overwriting existing keys
func benchmarkPutExisting(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)

	numKeys := 10000
	keys := makeKeys(numKeys)
	for i := 0; i < numKeys; i++ {
		store.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Put(keys[i%numKeys], keys[(i+1)%numKeys])
	}
}

// Benchmark for Put operation with large values
func benchmarkPutLargeValue(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)

	largeValue := make([]byte, 1*1024*1024) // 1MB
	keys := makeKeys(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Put(keys[i%len(keys)], largeValue)
	}
}

// Benchmark for Get operation
func benchmarkGet(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)
	requireFeature(b, store, db.FeatureGet)

	numKeys := 10000
	keys := makeKeys(numKeys)
	for i := 0; i < numKeys; i++ {
		store.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Get(keys[i%numKeys])
	}
}

// Benchmark for Delete operation (keys are re-inserted outside the timer
// in batches so every timed Delete hits a present key)
func benchmarkDelete(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)
	requireFeature(b, store, db.FeatureDelete)

	numKeys := 10000
	keys := makeKeys(numKeys)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%numKeys == 0 {
			b.StopTimer()
			for j := 0; j < numKeys; j++ {
				store.Put(keys[j], keys[j])
			}
			b.StartTimer()
		}
		store.Delete(keys[i%numKeys])
	}
}

// Benchmark for Has operation on present keys
func benchmarkHas(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)
	requireFeature(b, store, db.FeatureHas)

	numKeys := 10000
	keys := makeKeys(numKeys)
	for i := 0; i < numKeys; i++ {
		store.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Has(keys[i%numKeys])
	}
}

// Benchmark for Has operation on absent keys
func benchmarkHasNot(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeatureHas)

	key := []byte("never-inserted-key")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Has(key)
	}
}

// Benchmark for a mixed workload (80% reads, 15% writes, 5% deletes)
func benchmarkMixedUsage(b *testing.B, store db.Store) {

	b.Cleanup(func() {
		store.Close()
	})

	requireFeature(b, store, db.FeaturePut)
	requireFeature(b, store, db.FeatureGet)
	requireFeature(b, store, db.FeatureDelete)

	numKeys := 10000
	keys := makeKeys(numKeys)
	for i := 0; i < numKeys; i++ {
		store.Put(keys[i], keys[i])
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := keys[i%numKeys]
		switch i % 20 {
		case 0:
			store.Delete(key)
		case 1, 2, 3:
			store.Put(key, key)
		default:
			store.Get(key)
		}
	}
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// makeKeys pre-builds n keys so key formatting stays out of the timed loop
func makeKeys(n int) [][]byte {
	keys := make([][]byte, n)
	for i := 0; i < n; i++ {
		keys[i] = []byte(fmt.Sprintf("bench-key-%d", i))
	}
	return keys
}
