package ledger

import (
	"context"
	"testing"

	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

func TestGetAccountTransfersFiltersAndSorts(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 300, 700, 0)
	mustCreateAccount(t, e, 301, 700, 0)
	mustCreateAccount(t, e, 302, 700, 0)

	for i, amt := range []uint64{10, 20, 30} {
		code, err := e.CreateTransfer(ctx, transferBuf(hashID("tr")+uint64(i), 300, 301, amt, 0, 0))
		if err != nil || code != wire.ResultOK {
			t.Fatalf("transfer %d: code=%s err=%v", i, code, err)
		}
	}
	// A transfer not involving 300 at all.
	if code, err := e.CreateTransfer(ctx, transferBuf(hashID("unrelated"), 301, 302, 5, 0, 0)); err != nil || code != wire.ResultOK {
		t.Fatalf("unrelated transfer: code=%s err=%v", code, err)
	}

	out, err := e.GetAccountTransfers(ctx, wire.AccountFilter{AccountID: u128.FromUint64(300), Limit: 10})
	if err != nil {
		t.Fatalf("get_account_transfers: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 transfers for account 300, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp < out[i-1].Timestamp {
			t.Fatalf("results not ascending by timestamp: %+v", out)
		}
	}

	reversed, err := e.GetAccountTransfers(ctx, wire.AccountFilter{
		AccountID: u128.FromUint64(300),
		Limit:     10,
		Flags:     wire.FilterReversed,
	})
	if err != nil {
		t.Fatalf("get_account_transfers reversed: %v", err)
	}
	if len(reversed) != 3 || reversed[0].Timestamp < reversed[len(reversed)-1].Timestamp {
		t.Fatalf("expected descending order, got %+v", reversed)
	}

	limited, err := e.GetAccountTransfers(ctx, wire.AccountFilter{AccountID: u128.FromUint64(300), Limit: 2})
	if err != nil {
		t.Fatalf("get_account_transfers limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(limited))
	}
}

func TestGetAccountTransfersDebitsOnlyFilter(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 310, 700, 0)
	mustCreateAccount(t, e, 311, 700, 0)

	if code, err := e.CreateTransfer(ctx, transferBuf(hashID("d1"), 310, 311, 1, 0, 0)); err != nil || code != wire.ResultOK {
		t.Fatalf("transfer: code=%s err=%v", code, err)
	}
	if code, err := e.CreateTransfer(ctx, transferBuf(hashID("d2"), 311, 310, 1, 0, 0)); err != nil || code != wire.ResultOK {
		t.Fatalf("transfer: code=%s err=%v", code, err)
	}

	debitsOnly, err := e.GetAccountTransfers(ctx, wire.AccountFilter{
		AccountID: u128.FromUint64(310),
		Limit:     10,
		Flags:     wire.FilterDebits,
	})
	if err != nil {
		t.Fatalf("get_account_transfers debits-only: %v", err)
	}
	if len(debitsOnly) != 1 || !u128.Equal(debitsOnly[0].DebitAccountID, u128.FromUint64(310)) {
		t.Fatalf("expected exactly the transfer where 310 is debit, got %+v", debitsOnly)
	}
}

func TestChainedTransfersRollbackRestoresAccounts(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 400, 700, 0)
	mustCreateAccount(t, e, 401, 700, 0)
	mustCreateAccount(t, e, 402, 700, 0)

	ok1 := transferBuf(hashID("chain-ok"), 400, 401, 100, wire.TransferLinked, 0)
	// Second event reuses the id event1 just wrote, with different
	// debit/credit/amount, so it must fail as a mismatched duplicate.
	dup := transferBuf(hashID("chain-ok"), 401, 402, 50, 0, 0)

	results, err := e.CreateChainedTransfers(ctx, [][]byte{ok1, dup})
	if err != nil {
		t.Fatalf("chained transfers: %v", err)
	}
	if results[0] != wire.ResultLinkedEventFailed || results[1] != wire.ResultExistsWithDifferentFlags {
		t.Fatalf("unexpected results: %v", results)
	}

	a400, _ := e.LookupAccount(ctx, u128.FromUint64(400))
	a401, _ := e.LookupAccount(ctx, u128.FromUint64(401))
	zeroBalances(t, a400)
	zeroBalances(t, a401)
}
