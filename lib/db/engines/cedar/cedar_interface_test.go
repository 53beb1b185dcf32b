package cedar

import (
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
	dbtesting "github.com/ValentinKolb/oKV/lib/db/testing"
	"github.com/ValentinKolb/oKV/lib/db/util"
)

func Test(t *testing.T) {
	dbtesting.RunStoreTests(t, "CedarDB", func() db.Store {
		return NewCedarDB(nil)
	})
}

// the full suite again with the murmur3 hasher and a tiny initial table,
// so growth paths are exercised from capacity 8 upwards
func TestMurmur3(t *testing.T) {
	dbtesting.RunStoreTests(t, "CedarDB(murmur3)", func() db.Store {
		return NewCedarDB(&DBOptions{
			InitialCapacity: 8,
			ShrinkOnDelete:  true,
			Hasher:          util.HashBytesMurmur3,
		})
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunStoreBenchmarks(b, "CedarDB", func() db.Store {
		return NewCedarDB(nil)
	})
}
