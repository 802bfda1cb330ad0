// Package store defines the storage primitives the ledger core depends on
// and the wire-compatible key naming used across backends. Every
// implementation (store/memstore, store/redisstore, store/pebblestore)
// must give the same atomicity guarantee the source assumes of its host:
// within one Batch, no other batch observes a partial write.
package store

import (
	"context"
	"errors"

	"github.com/ltzhang/lua-beetle/u128"
)

// ErrNotFound is returned by Get when key is absent. Backends must map
// their own not-found signaling onto this sentinel so ledger code never
// depends on a specific backend's error type.
var ErrNotFound = errors.New("store: key not found")

// Store is the set of primitives the ledger core consumes, mirroring the
// abstract store contract: get/set/delete/exists/append/get_range/
// length/bulk_get/clock, each atomic with respect to the calling batch.
// A Store is obtained from a Batch; standalone reads outside a batch are
// permitted for lookups and queries, which do not mutate.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Append adds value to the byte string at key, creating it if
	// absent. Used for the per-account transfer index and balance
	// history, both fixed-record-size append logs.
	Append(ctx context.Context, key string, value []byte) error

	// GetRange returns the inclusive byte range [start, end] of the
	// value at key. Used to page through an index or history without
	// fetching the whole string.
	GetRange(ctx context.Context, key string, start, end int64) ([]byte, error)

	// Length returns the byte length of the value at key, 0 if absent.
	Length(ctx context.Context, key string) (int64, error)

	// Truncate cuts the byte string at key back to length n, discarding
	// anything appended beyond it. Used by chain rollback to undo index
	// and history appends without per-record removal.
	Truncate(ctx context.Context, key string, n int64) error

	// BulkGet fetches several keys in one round trip for query paths.
	// A nil entry in the result means the corresponding key was absent.
	BulkGet(ctx context.Context, keys []string) ([][]byte, error)

	// Clock returns the current server time in nanoseconds, monotonic
	// non-decreasing across calls on the same Store.
	Clock(ctx context.Context) (uint64, error)
}

// Batch is a Store plus the guarantee that one Batch call to a backend
// commits (or discards, on error) as a single atomic unit — the
// host-atomicity requirement the ledger core is built against. A Batcher
// is how ledger code opens one.
type Batcher interface {
	// Batch runs fn against a Store scoped to one atomic unit. If fn
	// returns an error, no writes fn made are visible afterward.
	Batch(ctx context.Context, fn func(Store) error) error
}

// Key naming. The prefixes and suffixes follow the source's key scheme,
// but every key here embeds the id in its hex form, including account,
// index and history keys, which the source keys by raw id bytes.

// AccountKey returns the key for an account record, hex-encoded like
// every other key function in this file, so the full key space stays
// printable and uniform across backends.
func AccountKey(id u128.U128) string {
	return "account:" + id.Hex()
}

// TransferKey returns the key for a transfer record, hex-encoded per the
// source's convention for printable-key hosts.
func TransferKey(id u128.U128) string {
	return "transfer:" + id.Hex()
}

// AccountTransfersIndexKey returns the key for account id's append-only
// transfer-id index.
func AccountTransfersIndexKey(id u128.U128) string {
	return "account:" + id.Hex() + ":transfers"
}

// BalanceHistoryKey returns the key for account id's append-only balance
// history.
func BalanceHistoryKey(id u128.U128) string {
	return "account:" + id.Hex() + ":balance_history"
}

// PendingResolutionKey returns the key for the side-record marking a
// pending transfer as resolved. This has no counterpart in the source's
// key list: pending transfers are immutable once written, so nothing in
// the base record can carry a "resolved by X" fact, and invariant 5
// (a pending transfer is consumed at most once) needs one. The marker is
// written exactly once, by whichever post/void event resolves the
// pending transfer first.
func PendingResolutionKey(pendingID u128.U128) string {
	return "transfer:" + pendingID.Hex() + ":resolution"
}
