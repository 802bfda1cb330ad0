package ledger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ltzhang/lua-beetle/store/memstore"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

func newTestEngine() *Engine {
	return New(memstore.New(), zerolog.Nop())
}

func mustCreateAccount(t *testing.T, e *Engine, id, ledger uint64, flags wire.AccountFlags) {
	t.Helper()
	a := wire.Account{ID: u128.FromUint64(id), Ledger: uint32(ledger), Code: 10, Flags: flags}
	code, err := e.CreateAccount(context.Background(), wire.EncodeAccount(a))
	if err != nil {
		t.Fatalf("create account %d: %v", id, err)
	}
	if code != wire.ResultOK {
		t.Fatalf("create account %d: result=%s", id, code)
	}
}

func transferBuf(id, debit, credit, amount uint64, flags wire.TransferFlags, pendingID uint64) []byte {
	tr := wire.Transfer{
		ID:              u128.FromUint64(id),
		DebitAccountID:  u128.FromUint64(debit),
		CreditAccountID: u128.FromUint64(credit),
		Amount:          u128.FromUint64(amount),
		Ledger:          700,
		Code:            1,
		Flags:           flags,
	}
	if pendingID != 0 {
		tr.PendingID = u128.FromUint64(pendingID)
	}
	return wire.EncodeTransfer(tr)
}

func TestSimpleTransfer(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 10, 700, 0)
	mustCreateAccount(t, e, 11, 700, 0)

	code, err := e.CreateTransfer(ctx, transferBuf(1, 10, 11, 1000, 0, 0))
	if err != nil || code != wire.ResultOK {
		t.Fatalf("transfer: code=%s err=%v", code, err)
	}

	a10, _ := e.LookupAccount(ctx, u128.FromUint64(10))
	a11, _ := e.LookupAccount(ctx, u128.FromUint64(11))
	if a10.DebitsPosted.Uint64() != 1000 || !u128.IsZero(a10.DebitsPending) || !u128.IsZero(a10.CreditsPosted) {
		t.Fatalf("account 10 wrong: %+v", a10)
	}
	if a11.CreditsPosted.Uint64() != 1000 || !u128.IsZero(a11.CreditsPending) {
		t.Fatalf("account 11 wrong: %+v", a11)
	}
}

func TestTwoPhasePost(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 40, 700, 0)
	mustCreateAccount(t, e, 41, 700, 0)

	code, err := e.CreateTransfer(ctx, transferBuf(hashID("p"), 40, 41, 600, wire.TransferPending, 0))
	if err != nil || code != wire.ResultOK {
		t.Fatalf("pending transfer: code=%s err=%v", code, err)
	}
	a40, _ := e.LookupAccount(ctx, u128.FromUint64(40))
	if a40.DebitsPending.Uint64() != 600 {
		t.Fatalf("expected debits_pending=600, got %+v", a40)
	}

	code, err = e.CreateTransfer(ctx, transferBuf(hashID("q"), 40, 41, 600, wire.TransferPostPending, hashID("p")))
	if err != nil || code != wire.ResultOK {
		t.Fatalf("post transfer: code=%s err=%v", code, err)
	}
	a40, _ = e.LookupAccount(ctx, u128.FromUint64(40))
	a41, _ := e.LookupAccount(ctx, u128.FromUint64(41))
	if !u128.IsZero(a40.DebitsPending) || a40.DebitsPosted.Uint64() != 600 {
		t.Fatalf("account 40 post-resolve wrong: %+v", a40)
	}
	if !u128.IsZero(a41.CreditsPending) || a41.CreditsPosted.Uint64() != 600 {
		t.Fatalf("account 41 post-resolve wrong: %+v", a41)
	}
}

func TestTwoPhaseVoid(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 50, 700, 0)
	mustCreateAccount(t, e, 51, 700, 0)

	if code, err := e.CreateTransfer(ctx, transferBuf(hashID("p2"), 50, 51, 700, wire.TransferPending, 0)); err != nil || code != wire.ResultOK {
		t.Fatalf("pending: code=%s err=%v", code, err)
	}
	if code, err := e.CreateTransfer(ctx, transferBuf(hashID("v2"), 50, 51, 700, wire.TransferVoidPending, hashID("p2"))); err != nil || code != wire.ResultOK {
		t.Fatalf("void: code=%s err=%v", code, err)
	}

	a50, _ := e.LookupAccount(ctx, u128.FromUint64(50))
	a51, _ := e.LookupAccount(ctx, u128.FromUint64(51))
	zeroBalances(t, a50)
	zeroBalances(t, a51)
}

func zeroBalances(t *testing.T, a *wire.Account) {
	t.Helper()
	if !u128.IsZero(a.DebitsPending) || !u128.IsZero(a.DebitsPosted) || !u128.IsZero(a.CreditsPending) || !u128.IsZero(a.CreditsPosted) {
		t.Fatalf("expected all-zero balances, got %+v", a)
	}
}

func TestLinkedRollbackOnDuplicate(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 600, 700, 0)

	ev1 := wire.Account{ID: u128.FromUint64(601), Ledger: 700, Code: 10, Flags: wire.AccountLinked}
	ev2 := wire.Account{ID: u128.FromUint64(600), Ledger: 700, Code: 10}
	results, err := e.CreateChainedAccounts(ctx, [][]byte{wire.EncodeAccount(ev1), wire.EncodeAccount(ev2)})
	if err != nil {
		t.Fatalf("chained accounts: %v", err)
	}
	if len(results) != 2 || results[0] != wire.ResultLinkedEventFailed || results[1] != wire.ResultAccountExists {
		t.Fatalf("unexpected results: %v", results)
	}

	a601, _ := e.LookupAccount(ctx, u128.FromUint64(601))
	if a601 != nil {
		t.Fatalf("account 601 should not exist after rollback, got %+v", a601)
	}
}

func TestLinkedRollbackWhenOpeningEventFails(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 610, 700, 0)

	ev1 := wire.Account{ID: u128.FromUint64(610), Ledger: 700, Code: 10, Flags: wire.AccountLinked}
	ev2 := wire.Account{ID: u128.FromUint64(611), Ledger: 700, Code: 10}
	results, err := e.CreateChainedAccounts(ctx, [][]byte{wire.EncodeAccount(ev1), wire.EncodeAccount(ev2)})
	if err != nil {
		t.Fatalf("chained accounts: %v", err)
	}
	if len(results) != 2 || results[0] != wire.ResultAccountExists || results[1] != wire.ResultLinkedEventFailed {
		t.Fatalf("unexpected results: %v", results)
	}

	a611, _ := e.LookupAccount(ctx, u128.FromUint64(611))
	if a611 != nil {
		t.Fatalf("account 611 should not exist after rollback, got %+v", a611)
	}
}

func TestUnclosedChainFails(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	ev := wire.Account{ID: u128.FromUint64(800), Ledger: 700, Code: 10, Flags: wire.AccountLinked}
	results, err := e.CreateChainedAccounts(ctx, [][]byte{wire.EncodeAccount(ev)})
	if err != nil {
		t.Fatalf("chained accounts: %v", err)
	}
	if len(results) != 1 || results[0] != wire.ResultLinkedEventChainOpen {
		t.Fatalf("unexpected results: %v", results)
	}
	a800, _ := e.LookupAccount(ctx, u128.FromUint64(800))
	if a800 != nil {
		t.Fatalf("account 800 should not exist, got %+v", a800)
	}
}

func TestBalanceConstraintViolation(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 900, 700, wire.AccountDebitsMustNotExceedCredits)
	mustCreateAccount(t, e, 901, 700, 0)

	code, err := e.CreateTransfer(ctx, transferBuf(hashID("t900"), 900, 901, 1, 0, 0))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if code != wire.ResultExceedsCredits {
		t.Fatalf("expected exceeds_credits, got %s", code)
	}
	a900, _ := e.LookupAccount(ctx, u128.FromUint64(900))
	zeroBalances(t, a900)
}

func TestHistoryFlag(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	mustCreateAccount(t, e, 200, 700, wire.AccountHistory)
	mustCreateAccount(t, e, 201, 700, 0)

	for i := 0; i < 2; i++ {
		code, err := e.CreateTransfer(ctx, transferBuf(hashID("h")+uint64(i), 200, 201, 150, 0, 0))
		if err != nil || code != wire.ResultOK {
			t.Fatalf("transfer %d: code=%s err=%v", i, code, err)
		}
	}

	bal200, err := e.GetAccountBalances(ctx, wire.AccountFilter{AccountID: u128.FromUint64(200), Limit: 10})
	if err != nil {
		t.Fatalf("get_account_balances(200): %v", err)
	}
	if len(bal200) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(bal200))
	}
	if bal200[0].DebitsPosted.Uint64() != 150 || bal200[1].DebitsPosted.Uint64() != 300 {
		t.Fatalf("unexpected snapshots: %+v", bal200)
	}

	bal201, err := e.GetAccountBalances(ctx, wire.AccountFilter{AccountID: u128.FromUint64(201), Limit: 10})
	if err != nil {
		t.Fatalf("get_account_balances(201): %v", err)
	}
	if len(bal201) != 0 {
		t.Fatalf("expected no history for 201, got %+v", bal201)
	}
}

// hashID derives a small deterministic non-zero id from a label, the way
// the teacher's tests use short string names for transfer/account ids in
// a backend that stores ids as raw bytes.
func hashID(label string) uint64 {
	var h uint64 = 1469598103934665603
	for _, c := range label {
		h ^= uint64(c)
		h *= 1099511628211
	}
	if h == 0 {
		h = 1
	}
	return h
}
