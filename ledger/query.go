package ledger

import (
	"context"
	"sort"

	"github.com/ltzhang/lua-beetle/store"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// timestampUnbounded mirrors the source's convention that a filter's
// timestamp_max of 0 or anything at/above 2^63 means "no upper bound".
const timestampUnbounded = uint64(1) << 63

func timestampInRange(ts, min, max uint64) bool {
	if ts < min {
		return false
	}
	if max == 0 || max >= timestampUnbounded {
		return true
	}
	return ts <= max
}

// getAccountTransfers implements §4.6 get_account_transfers against a
// read-only store.Store.
func getAccountTransfers(ctx context.Context, s store.Store, f wire.AccountFilter) ([]wire.Transfer, error) {
	debits := f.Flags.Has(wire.FilterDebits)
	credits := f.Flags.Has(wire.FilterCredits)
	if !debits && !credits {
		debits, credits = true, true
	}
	if f.Limit == 0 {
		return nil, nil
	}

	raw, err := s.Get(ctx, store.AccountTransfersIndexKey(f.AccountID))
	if err == store.ErrNotFound || len(raw) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ids := splitIDs(raw)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = store.TransferKey(id)
	}
	records, err := s.BulkGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	var out []wire.Transfer
	for _, rec := range records {
		if len(rec) != wire.TransferSize {
			continue
		}
		t, err := wire.DecodeTransfer(rec)
		if err != nil {
			continue
		}
		isDebit := u128.Equal(t.DebitAccountID, f.AccountID)
		isCredit := u128.Equal(t.CreditAccountID, f.AccountID)
		if !((isDebit && debits) || (isCredit && credits)) {
			continue
		}
		if !timestampInRange(t.Timestamp, f.TimestampMin, f.TimestampMax) {
			continue
		}
		if !u128.IsZero(f.UserData128) && !u128.Equal(f.UserData128, t.UserData128) {
			continue
		}
		if f.UserData64 != 0 && f.UserData64 != t.UserData64 {
			continue
		}
		if f.UserData32 != 0 && f.UserData32 != t.UserData32 {
			continue
		}
		if f.Code != 0 && f.Code != t.Code {
			continue
		}
		out = append(out, t)
	}

	reversed := f.Flags.Has(wire.FilterReversed)
	sort.SliceStable(out, func(i, j int) bool {
		if reversed {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	if uint32(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// getAccountBalances implements §4.6 get_account_balances: symmetric to
// getAccountTransfers but over the balance-history log. Filters that
// depend on a transfer's own fields (user_data, code, debit/credit side)
// don't apply here, since a history entry is a post-mutation balance
// snapshot, not a transfer; timestamp range and reversed ordering carry
// over unchanged.
func getAccountBalances(ctx context.Context, s store.Store, f wire.AccountFilter) ([]wire.AccountBalance, error) {
	if f.Limit == 0 {
		return nil, nil
	}
	raw, err := s.Get(ctx, store.BalanceHistoryKey(f.AccountID))
	if err == store.ErrNotFound || len(raw) == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []wire.AccountBalance
	for off := 0; off+historyRecordSize <= len(raw); off += historyRecordSize {
		ts, b, err := decodeHistoryRecord(raw[off : off+historyRecordSize])
		if err != nil {
			continue
		}
		if !timestampInRange(ts, f.TimestampMin, f.TimestampMax) {
			continue
		}
		out = append(out, b)
	}

	if f.Flags.Has(wire.FilterReversed) {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if uint32(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func splitIDs(raw []byte) []u128.U128 {
	n := len(raw) / 16
	out := make([]u128.U128, 0, n)
	for i := 0; i < n; i++ {
		var id u128.U128
		copy(id[:], raw[i*16:i*16+16])
		out = append(out, id)
	}
	return out
}
