package lstore

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/db/engines/cedar"
	"github.com/ValentinKolb/oKV/lib/store"
)

func newTestStore() store.IStore {
	return NewLocalStore(func() db.Store {
		return cedar.NewCedarDB(nil)
	})
}

// retCode extracts the RetCode from an error produced by the store layer
func retCode(t *testing.T, err error) store.RetCode {
	t.Helper()
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected a *store.Error, got %T (%v)", err, err)
	}
	return storeErr.Code
}

func TestPutGetRoundTrip(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	if err := st.Put([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, loaded, err := st.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded {
		t.Errorf("expected the key to be loaded")
	}
	if !bytes.Equal(value, []byte("value")) {
		t.Errorf("expected value, got %s", value)
	}
}

func TestExpectedOutcomesAreNotErrors(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	// absent key on Get: data path, no error
	value, loaded, err := st.Get([]byte("missing"))
	if err != nil {
		t.Errorf("Get of absent key must not error, got %v", err)
	}
	if loaded || value != nil {
		t.Errorf("expected (nil, false) for absent key, got (%v, %v)", value, loaded)
	}

	// absent key on Delete: data path, no error
	deleted, err := st.Delete([]byte("missing"))
	if err != nil {
		t.Errorf("Delete of absent key must not error, got %v", err)
	}
	if deleted {
		t.Errorf("expected deleted=false for absent key")
	}

	// occupied key on PutIfAbsent: data path, no error
	st.Put([]byte("taken"), []byte("v1"))
	stored, err := st.PutIfAbsent([]byte("taken"), []byte("v2"))
	if err != nil {
		t.Errorf("PutIfAbsent on present key must not error, got %v", err)
	}
	if stored {
		t.Errorf("expected stored=false for present key")
	}
	value, _, _ = st.Get([]byte("taken"))
	if !bytes.Equal(value, []byte("v1")) {
		t.Errorf("rejected PutIfAbsent must not change the value, got %s", value)
	}
}

func TestExceptionalOutcomesAreErrors(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	// nil key is a caller programming error
	if err := st.Put(nil, []byte("v")); err == nil {
		t.Errorf("expected an error for nil key")
	} else if code := retCode(t, err); code != store.RetCInvalidArgument {
		t.Errorf("expected RetCInvalidArgument, got %s", code)
	}

	if _, _, err := st.Get(nil); err == nil {
		t.Errorf("expected an error for nil key on Get")
	}
	if _, err := st.Delete(nil); err == nil {
		t.Errorf("expected an error for nil key on Delete")
	}
}

func TestCapacityBudgetSurfacesAsNoMem(t *testing.T) {
	st := NewLocalStore(func() db.Store {
		return cedar.NewCedarDB(&cedar.DBOptions{
			InitialCapacity: 8,
			MaxCapacity:     8,
		})
	})
	defer st.Close()

	for i := 0; i < 6; i++ {
		if err := st.Put([]byte{byte(i)}, []byte("v")); err != nil {
			t.Fatalf("Put %d within budget failed: %v", i, err)
		}
	}

	err := st.Put([]byte("overflow"), []byte("v"))
	if err == nil {
		t.Fatalf("expected an error past the capacity budget")
	}
	if code := retCode(t, err); code != store.RetCNoMem {
		t.Errorf("expected RetCNoMem, got %s", code)
	}
}

func TestGetReturnsOwnedCopy(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	st.Put([]byte("key"), []byte("original"))

	first, _, _ := st.Get([]byte("key"))

	// a later overwrite must not reach through into the earlier copy
	st.Put([]byte("key"), []byte("replaced"))

	if !bytes.Equal(first, []byte("original")) {
		t.Errorf("earlier Get result changed after overwrite: %s", first)
	}

	second, _, _ := st.Get([]byte("key"))
	if !bytes.Equal(second, []byte("replaced")) {
		t.Errorf("expected the new value, got %s", second)
	}
}

func TestUseAfterClose(t *testing.T) {
	st := newTestStore()

	st.Put([]byte("key"), []byte("value"))

	if err := st.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}

	// every operation on a destroyed store reports RetCClosed
	if err := st.Put([]byte("key"), []byte("value")); err == nil {
		t.Errorf("expected an error from Put after Close")
	} else if code := retCode(t, err); code != store.RetCClosed {
		t.Errorf("expected RetCClosed, got %s", code)
	}

	if _, _, err := st.Get([]byte("key")); err == nil {
		t.Errorf("expected an error from Get after Close")
	}
	if _, err := st.Has([]byte("key")); err == nil {
		t.Errorf("expected an error from Has after Close")
	}
	if _, err := st.Size(); err == nil {
		t.Errorf("expected an error from Size after Close")
	}
	if err := st.Clear(); err == nil {
		t.Errorf("expected an error from Clear after Close")
	}

	// the second Close is a discipline violation, not a crash
	if err := st.Close(); err == nil {
		t.Errorf("expected an error from second Close")
	} else if code := retCode(t, err); code != store.RetCClosed {
		t.Errorf("expected RetCClosed from second Close, got %s", code)
	}
}

func TestSizeAndClear(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	st.Put([]byte("a"), []byte("1"))
	st.Put([]byte("b"), []byte("2"))

	count, err := st.Size()
	if err != nil || count != 2 {
		t.Errorf("expected size 2, got %d (%v)", count, err)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, _ = st.Size()
	if count != 0 {
		t.Errorf("expected size 0 after Clear, got %d", count)
	}

	// the store remains usable
	if err := st.Put([]byte("c"), []byte("3")); err != nil {
		t.Errorf("Put after Clear failed: %v", err)
	}
}

func TestRange(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	st.Put([]byte("a"), []byte("1"))
	st.Put([]byte("b"), []byte("2"))

	seen := map[string]string{}
	err := st.Range(func(key, value []byte) bool {
		seen[string(key)] = string(value)
		return true
	})
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(seen) != 2 || seen["a"] != "1" || seen["b"] != "2" {
		t.Errorf("unexpected Range result: %v", seen)
	}
}

func TestGetDBInfo(t *testing.T) {
	st := newTestStore()
	defer st.Close()

	info, err := st.GetDBInfo()
	if err != nil {
		t.Fatalf("GetDBInfo failed: %v", err)
	}
	if info.DbType != db.ImplCedar {
		t.Errorf("expected engine type %s, got %s", db.ImplCedar, info.DbType)
	}
}
