package lstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/oKV/lib/db"
	"github.com/ValentinKolb/oKV/lib/store"
)

type storeImpl struct {
	db     db.Store
	closed atomic.Bool
}

// NewLocalStore creates a new local store instance.
// This store wraps a single in-process engine created by the factory. It
// owns the engine's lifecycle: the engine itself does not track a
// destroyed state, so the liveness flag lives here and every operation is
// guarded by it.
func NewLocalStore(factory store.DBFactory) store.IStore {
	return &storeImpl{
		db: factory(),
	}
}

// guard rejects operations on a destroyed store. The core leaves
// use-after-destroy undefined; this wrapper turns it into a reported error.
func (s *storeImpl) guard() error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store has been closed")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Put(key, value []byte) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !s.db.SupportsFeature(db.FeaturePut) {
		return store.NewError(store.RetCUnsupportedOperation, "Put operation is not supported")
	}

	if status := s.db.Put(key, value); status != db.StatusOK {
		return store.FromStatus(status, "Put")
	}
	return nil
}

func (s *storeImpl) PutIfAbsent(key, value []byte) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if !s.db.SupportsFeature(db.FeaturePutIfAbsent) {
		return false, store.NewError(store.RetCUnsupportedOperation, "PutIfAbsent operation is not supported")
	}

	switch status := s.db.PutIfAbsent(key, value); status {
	case db.StatusOK:
		return true, nil
	case db.StatusExists:
		// the key being taken is an expected outcome, not an error
		return false, nil
	default:
		return false, store.FromStatus(status, "PutIfAbsent")
	}
}

func (s *storeImpl) Get(key []byte) ([]byte, bool, error) {
	if err := s.guard(); err != nil {
		return nil, false, err
	}
	if !s.db.SupportsFeature(db.FeatureGet) {
		return nil, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}

	view, status := s.db.Get(key)
	switch status {
	case db.StatusOK:
		// the engine hands out a borrowed view; copy it so the caller
		// owns what crosses the boundary
		value := make([]byte, len(view))
		copy(value, view)
		return value, true, nil
	case db.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, store.FromStatus(status, "Get")
	}
}

func (s *storeImpl) Delete(key []byte) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if !s.db.SupportsFeature(db.FeatureDelete) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}

	switch status := s.db.Delete(key); status {
	case db.StatusOK:
		return true, nil
	case db.StatusNotFound:
		return false, nil
	default:
		return false, store.FromStatus(status, "Delete")
	}
}

func (s *storeImpl) Has(key []byte) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	if !s.db.SupportsFeature(db.FeatureHas) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Has operation is not supported")
	}
	return s.db.Has(key), nil
}

func (s *storeImpl) Size() (int, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	return s.db.Size(), nil
}

func (s *storeImpl) Clear() error {
	if err := s.guard(); err != nil {
		return err
	}
	if !s.db.SupportsFeature(db.FeatureClear) {
		return store.NewError(store.RetCUnsupportedOperation, "Clear operation is not supported")
	}
	s.db.Clear()
	return nil
}

func (s *storeImpl) Range(fn func(key, value []byte) bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !s.db.SupportsFeature(db.FeatureRange) {
		return store.NewError(store.RetCUnsupportedOperation, "Range operation is not supported")
	}
	s.db.Range(fn)
	return nil
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	if err := s.guard(); err != nil {
		return db.DatabaseInfo{}, err
	}
	return s.db.GetInfo(), nil
}

func (s *storeImpl) Close() error {
	// flip the liveness flag exactly once; later calls report RetCClosed
	if !s.closed.CompareAndSwap(false, true) {
		return store.NewError(store.RetCClosed, "store has already been closed")
	}
	return s.db.Close()
}
