// Package memstore is an in-memory store.Store used by the ledger and
// client unit tests. It is not meant for production
// use: all state is lost on process exit.
package memstore

import (
	"context"
	"sync"

	"github.com/ltzhang/lua-beetle/store"
)

// Store is a mutex-guarded map implementation of store.Store and
// store.Batcher. The single mutex held for the duration of Batch gives
// the same whole-batch atomicity the ledger core assumes of a host store.
type Store struct {
	mu    sync.Mutex
	data  map[string][]byte
	clock uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Batch runs fn while holding the store's lock, so nothing else observes
// partial writes made inside fn. On error, writes made during fn are
// rolled back by restoring a snapshot taken before fn ran.
func (s *Store) Batch(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		cp := make([]byte, len(v))
		copy(cp, v)
		snapshot[k] = cp
	}

	view := &view{s: s}
	if err := fn(view); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// view is the store.Store handed to a Batch callback; it operates
// directly on the parent Store's map, which is safe because Batch holds
// the lock for the callback's entire duration.
type view struct {
	s *Store
}

func (v *view) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := v.s.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (v *view) Set(ctx context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	v.s.data[key] = cp
	return nil
}

func (v *view) Delete(ctx context.Context, key string) error {
	delete(v.s.data, key)
	return nil
}

func (v *view) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := v.s.data[key]
	return ok, nil
}

func (v *view) Append(ctx context.Context, key string, value []byte) error {
	v.s.data[key] = append(v.s.data[key], value...)
	return nil
}

func (v *view) GetRange(ctx context.Context, key string, start, end int64) ([]byte, error) {
	val, ok := v.s.data[key]
	if !ok {
		return nil, nil
	}
	if start < 0 {
		start = 0
	}
	if end >= int64(len(val)) {
		end = int64(len(val)) - 1
	}
	if start > end {
		return nil, nil
	}
	out := make([]byte, end-start+1)
	copy(out, val[start:end+1])
	return out, nil
}

func (v *view) Length(ctx context.Context, key string) (int64, error) {
	return int64(len(v.s.data[key])), nil
}

func (v *view) Truncate(ctx context.Context, key string, n int64) error {
	val, ok := v.s.data[key]
	if !ok {
		return nil
	}
	if n < 0 {
		n = 0
	}
	if n >= int64(len(val)) {
		return nil
	}
	v.s.data[key] = val[:n]
	return nil
}

func (v *view) BulkGet(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if val, ok := v.s.data[k]; ok {
			cp := make([]byte, len(val))
			copy(cp, val)
			out[i] = cp
		}
	}
	return out, nil
}

func (v *view) Clock(ctx context.Context) (uint64, error) {
	v.s.clock++
	return v.s.clock, nil
}
