// Package pebblestore implements store.Store over an embedded Pebble LSM
// tree, for single-process deployments that want a Store backend without
// a Redis server. pebble.Batch gives whole-batch atomicity directly,
// unlike redisstore's embedded-script approach.
package pebblestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog/log"

	"github.com/ltzhang/lua-beetle/store"
)

// Options configures a Store.
type Options struct {
	Path           string
	BlockCacheSize int64 // bytes; negative disables the block cache
}

// Store is a Pebble-backed store.Store and store.Batcher.
type Store struct {
	db    *pebble.DB
	cache *pebble.Cache
	mu    sync.Mutex
	clock uint64
}

// New opens (or creates) a Pebble database at opts.Path.
func New(opts Options) (*Store, error) {
	popts := &pebble.Options{}

	var cache *pebble.Cache
	if opts.BlockCacheSize >= 0 {
		cache = pebble.NewCache(opts.BlockCacheSize)
		popts.Cache = cache
		log.Info().Int64("block_cache_size", opts.BlockCacheSize).Msg("opening pebble store with block cache")
	} else {
		log.Info().Msg("opening pebble store with block cache disabled")
	}

	db, err := pebble.Open(opts.Path, popts)
	if err != nil {
		if cache != nil {
			cache.Unref()
		}
		return nil, fmt.Errorf("pebblestore: open: %w", err)
	}
	return &Store{db: db, cache: cache}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	if s.cache != nil {
		s.cache.Unref()
		s.cache = nil
	}
	return err
}

// Batch runs fn against a pebble.Batch and commits it atomically on
// success; on error the batch is discarded unapplied.
func (s *Store) Batch(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewIndexedBatch()
	v := &view{ctx: ctx, db: s.db, batch: b, s: s}
	if err := fn(v); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("pebblestore: commit batch: %w", err)
	}
	return nil
}

type view struct {
	ctx   context.Context
	db    *pebble.DB
	batch *pebble.Batch
	s     *Store
}

func (v *view) Get(ctx context.Context, key string) ([]byte, error) {
	val, closer, err := v.batch.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(val))
	copy(out, val)
	closer.Close()
	return out, nil
}

func (v *view) Set(ctx context.Context, key string, value []byte) error {
	return v.batch.Set([]byte(key), value, nil)
}

func (v *view) Delete(ctx context.Context, key string) error {
	return v.batch.Delete([]byte(key), nil)
}

func (v *view) Exists(ctx context.Context, key string) (bool, error) {
	_, closer, err := v.batch.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (v *view) Append(ctx context.Context, key string, value []byte) error {
	cur, err := v.Get(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return v.batch.Set([]byte(key), append(cur, value...), nil)
}

func (v *view) GetRange(ctx context.Context, key string, start, end int64) ([]byte, error) {
	val, err := v.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
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
	return val[start : end+1], nil
}

func (v *view) Length(ctx context.Context, key string) (int64, error) {
	val, err := v.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(len(val)), nil
}

func (v *view) Truncate(ctx context.Context, key string, n int64) error {
	val, err := v.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if n < 0 {
		n = 0
	}
	if n >= int64(len(val)) {
		return nil
	}
	return v.batch.Set([]byte(key), val[:n], nil)
}

func (v *view) BulkGet(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		val, err := v.Get(ctx, k)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func (v *view) Clock(ctx context.Context) (uint64, error) {
	v.s.clock++
	now := uint64(time.Now().UnixNano())
	if now > v.s.clock {
		v.s.clock = now
	}
	return v.s.clock, nil
}

// Metrics reports the underlying pebble.Metrics, for a bench CLI that
// wants backend-internal stats the way the source's benchmark harness
// does for its own Pebble backend.
func (s *Store) Metrics() *pebble.Metrics {
	return s.db.Metrics()
}
