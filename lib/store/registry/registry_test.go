package registry

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/db/engines/cedar"
	"github.com/ValentinKolb/oKV/lib/store"
)

func cedarFactory() db.Store {
	return cedar.NewCedarDB(nil)
}

func retCode(t *testing.T, err error) store.RetCode {
	t.Helper()
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected a *store.Error, got %T (%v)", err, err)
	}
	return storeErr.Code
}

func TestCreateResolveDestroy(t *testing.T) {
	reg := NewRegistry()

	h := reg.Create(cedarFactory)
	if h == 0 {
		t.Fatalf("zero must never be a valid handle")
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 live handle, got %d", reg.Len())
	}

	if _, err := reg.Resolve(h); err != nil {
		t.Errorf("Resolve of a live handle failed: %v", err)
	}

	if err := reg.Destroy(h); err != nil {
		t.Errorf("Destroy failed: %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected 0 live handles after Destroy, got %d", reg.Len())
	}
}

func TestOperationsThroughHandle(t *testing.T) {
	reg := NewRegistry()
	h := reg.Create(cedarFactory)
	defer reg.Destroy(h)

	if err := reg.Put(h, []byte("name"), []byte("Alyssa")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, loaded, err := reg.Get(h, []byte("name"))
	if err != nil || !loaded {
		t.Fatalf("Get failed: %v (loaded=%v)", err, loaded)
	}
	if !bytes.Equal(value, []byte("Alyssa")) {
		t.Errorf("expected Alyssa, got %s", value)
	}

	ok, err := reg.Has(h, []byte("name"))
	if err != nil || !ok {
		t.Errorf("expected Has to report the key, got %v (%v)", ok, err)
	}

	count, err := reg.Size(h)
	if err != nil || count != 1 {
		t.Errorf("expected size 1, got %d (%v)", count, err)
	}

	deleted, err := reg.Delete(h, []byte("name"))
	if err != nil || !deleted {
		t.Errorf("expected the delete to succeed, got %v (%v)", deleted, err)
	}
	deleted, err = reg.Delete(h, []byte("name"))
	if err != nil || deleted {
		t.Errorf("expected deleted=false on repeat, got %v (%v)", deleted, err)
	}
}

func TestStaleHandle(t *testing.T) {
	reg := NewRegistry()

	h := reg.Create(cedarFactory)
	if err := reg.Destroy(h); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	// the handle is gone from the table; every use is INVALID
	if _, err := reg.Resolve(h); err == nil {
		t.Errorf("expected an error resolving a destroyed handle")
	} else if code := retCode(t, err); code != store.RetCInvalidArgument {
		t.Errorf("expected RetCInvalidArgument, got %s", code)
	}

	if err := reg.Put(h, []byte("k"), []byte("v")); err == nil {
		t.Errorf("expected an error from Put on a destroyed handle")
	}

	// double destroy is rejected, not a crash
	if err := reg.Destroy(h); err == nil {
		t.Errorf("expected an error from second Destroy")
	} else if code := retCode(t, err); code != store.RetCInvalidArgument {
		t.Errorf("expected RetCInvalidArgument, got %s", code)
	}

	// unknown handles behave the same way
	if _, err := reg.Resolve(Handle(9999)); err == nil {
		t.Errorf("expected an error resolving an unknown handle")
	}
	if _, err := reg.Resolve(Handle(0)); err == nil {
		t.Errorf("zero must never resolve")
	}
}

func TestIndependentHandles(t *testing.T) {
	reg := NewRegistry()

	h1 := reg.Create(cedarFactory)
	h2 := reg.Create(cedarFactory)
	defer reg.Destroy(h1)
	defer reg.Destroy(h2)

	if h1 == h2 {
		t.Fatalf("handles must be unique")
	}

	reg.Put(h1, []byte("shared-key"), []byte("from-h1"))
	reg.Put(h2, []byte("shared-key"), []byte("from-h2"))

	v1, _, _ := reg.Get(h1, []byte("shared-key"))
	v2, _, _ := reg.Get(h2, []byte("shared-key"))
	if !bytes.Equal(v1, []byte("from-h1")) || !bytes.Equal(v2, []byte("from-h2")) {
		t.Errorf("stores behind different handles leaked into each other: %s / %s", v1, v2)
	}

	// destroying one handle leaves the other fully usable
	if err := reg.Destroy(h1); err != nil {
		t.Fatalf("Destroy of h1 failed: %v", err)
	}
	if _, loaded, err := reg.Get(h2, []byte("shared-key")); err != nil || !loaded {
		t.Errorf("h2 broken after destroying h1: %v", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	reg := NewRegistry()
	h := reg.Create(cedarFactory)
	defer reg.Destroy(h)

	reg.Put(h, []byte("k"), []byte("v"))
	reg.Get(h, []byte("k"))
	reg.Get(h, []byte("missing"))

	var sb strings.Builder
	WriteMetrics(&sb)
	output := sb.String()

	for _, name := range []string{
		"okv_registry_creates_total",
		"okv_registry_puts_total",
		"okv_registry_gets_total",
		"okv_registry_get_hits_total",
		"okv_registry_get_misses_total",
	} {
		if !strings.Contains(output, name) {
			t.Errorf("expected metric %s in output", name)
		}
	}
}
