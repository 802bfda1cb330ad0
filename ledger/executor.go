package ledger

import (
	"context"

	"github.com/ltzhang/lua-beetle/store"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// executeCreateAccount applies one create_account event against s,
// following the precondition order in the component design. allowLinked
// distinguishes the chained entry point (permits the linked flag) from
// the single-event entry point (which rejects it as chain_open).
func executeCreateAccount(ctx context.Context, s store.Store, buf []byte, allowLinked bool) (eventOutcome, error) {
	if len(buf) != wire.AccountSize {
		return fail(wire.ResultInvalidDataSize), nil
	}
	a, err := wire.DecodeAccount(buf)
	if err != nil {
		return fail(wire.ResultInvalidDataSize), nil
	}
	if a.Reserved != 0 {
		return fail(wire.ResultInvalidDataSize), nil
	}
	if u128.IsZero(a.ID) {
		return fail(wire.ResultAccountIDMustNotBeZero), nil
	}
	if a.Ledger == 0 {
		return fail(wire.ResultLedgerMustNotBeZero), nil
	}
	if a.Code == 0 {
		return fail(wire.ResultCodeMustNotBeZero), nil
	}
	if a.Flags.Has(wire.AccountDebitsMustNotExceedCredits) && a.Flags.Has(wire.AccountCreditsMustNotExceedDebits) {
		return fail(wire.ResultFlagsAreMutuallyExclusive), nil
	}
	switch {
	case !u128.IsZero(a.DebitsPending):
		return fail(wire.ResultDebitsPendingMustBeZero), nil
	case !u128.IsZero(a.DebitsPosted):
		return fail(wire.ResultDebitsPostedMustBeZero), nil
	case !u128.IsZero(a.CreditsPending):
		return fail(wire.ResultCreditsPendingMustBeZero), nil
	case !u128.IsZero(a.CreditsPosted):
		return fail(wire.ResultCreditsPostedMustBeZero), nil
	}
	if !allowLinked && a.Flags.Has(wire.AccountLinked) {
		return fail(wire.ResultLinkedEventChainOpen), nil
	}

	key := store.AccountKey(a.ID)
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return eventOutcome{}, err
	}
	if exists {
		return fail(wire.ResultAccountExists), nil
	}

	if a.Flags.Has(wire.AccountImported) {
		if a.Timestamp == 0 {
			return fail(wire.ResultImportedTimestampMustNotBeZero), nil
		}
	} else {
		ts, err := s.Clock(ctx)
		if err != nil {
			return eventOutcome{}, err
		}
		a.Timestamp = ts
	}

	if err := s.Set(ctx, key, wire.EncodeAccount(a)); err != nil {
		return eventOutcome{}, err
	}
	return ok(key, nil, nil), nil
}

// executeCreateTransfer applies one create_transfer event against s,
// following the precondition order and dispatch rules in the component
// design (§4.3.2).
func executeCreateTransfer(ctx context.Context, s store.Store, buf []byte, allowLinked bool) (eventOutcome, error) {
	if len(buf) != wire.TransferSize {
		return fail(wire.ResultInvalidDataSize), nil
	}
	t, err := wire.DecodeTransfer(buf)
	if err != nil {
		return fail(wire.ResultInvalidDataSize), nil
	}
	if u128.IsZero(t.ID) {
		return fail(wire.ResultTransferIDMustNotBeZero), nil
	}
	if u128.Equal(t.DebitAccountID, t.CreditAccountID) {
		return fail(wire.ResultAccountsMustBeDifferent), nil
	}

	tKey := store.TransferKey(t.ID)
	existing, err := loadTransferIfExists(ctx, s, t.ID)
	if err != nil {
		return eventOutcome{}, err
	}
	if existing != nil {
		if transfersEqualModuloTimestamp(*existing, t) {
			return fail(wire.ResultTransferExists), nil
		}
		return fail(wire.ResultExistsWithDifferentFlags), nil
	}

	debit, err := loadAccount(ctx, s, t.DebitAccountID)
	if err != nil {
		return eventOutcome{}, err
	}
	if debit == nil {
		return fail(wire.ResultDebitAccountNotFound), nil
	}
	credit, err := loadAccount(ctx, s, t.CreditAccountID)
	if err != nil {
		return eventOutcome{}, err
	}
	if credit == nil {
		return fail(wire.ResultCreditAccountNotFound), nil
	}
	if t.Ledger != debit.Ledger || t.Ledger != credit.Ledger {
		return fail(wire.ResultTransferMustHaveSameLedgerAsAccounts), nil
	}
	if !allowLinked && t.Flags.Has(wire.TransferLinked) {
		return fail(wire.ResultLinkedEventChainOpen), nil
	}
	if debit.Flags.Has(wire.AccountClosed) {
		return fail(wire.ResultDebitAccountClosed), nil
	}
	if credit.Flags.Has(wire.AccountClosed) {
		return fail(wire.ResultCreditAccountClosed), nil
	}

	twoPhase := t.Flags.Has(wire.TransferPostPending) || t.Flags.Has(wire.TransferVoidPending)
	var resolutionKey string
	if twoPhase {
		if u128.IsZero(t.PendingID) {
			return fail(wire.ResultPendingIDRequired), nil
		}
		pending, err := loadTransferIfExists(ctx, s, t.PendingID)
		if err != nil {
			return eventOutcome{}, err
		}
		if pending == nil {
			return fail(wire.ResultPendingTransferNotFound), nil
		}
		if !pending.Flags.Has(wire.TransferPending) {
			return fail(wire.ResultPendingTransferNotPending), nil
		}
		if !u128.Equal(pending.DebitAccountID, t.DebitAccountID) {
			return fail(wire.ResultPendingTransferHasDifferentDebitAccountID), nil
		}
		if !u128.Equal(pending.CreditAccountID, t.CreditAccountID) {
			return fail(wire.ResultPendingTransferHasDifferentCreditAccountID), nil
		}
		if !u128.Equal(pending.Amount, t.Amount) {
			return fail(wire.ResultPendingTransferHasDifferentAmount), nil
		}
		resolutionKey = store.PendingResolutionKey(t.PendingID)
		resolved, err := s.Exists(ctx, resolutionKey)
		if err != nil {
			return eventOutcome{}, err
		}
		if resolved {
			if t.Flags.Has(wire.TransferPostPending) {
				return fail(wire.ResultPendingTransferAlreadyPosted), nil
			}
			return fail(wire.ResultPendingTransferAlreadyVoided), nil
		}
	}

	switch {
	case t.Flags.Has(wire.TransferPostPending):
		var ok bool
		debit.DebitsPending, ok = u128.Sub(debit.DebitsPending, t.Amount)
		if !ok {
			return fail(wire.ResultPendingTransferAlreadyPosted), nil
		}
		credit.CreditsPending, ok = u128.Sub(credit.CreditsPending, t.Amount)
		if !ok {
			return fail(wire.ResultPendingTransferAlreadyPosted), nil
		}
		var overflow bool
		debit.DebitsPosted, overflow = u128.Add(debit.DebitsPosted, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsCredits), nil
		}
		credit.CreditsPosted, overflow = u128.Add(credit.CreditsPosted, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsDebits), nil
		}
	case t.Flags.Has(wire.TransferVoidPending):
		var ok bool
		debit.DebitsPending, ok = u128.Sub(debit.DebitsPending, t.Amount)
		if !ok {
			return fail(wire.ResultPendingTransferAlreadyVoided), nil
		}
		credit.CreditsPending, ok = u128.Sub(credit.CreditsPending, t.Amount)
		if !ok {
			return fail(wire.ResultPendingTransferAlreadyVoided), nil
		}
	case t.Flags.Has(wire.TransferPending):
		var overflow bool
		debit.DebitsPending, overflow = u128.Add(debit.DebitsPending, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsCredits), nil
		}
		credit.CreditsPending, overflow = u128.Add(credit.CreditsPending, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsDebits), nil
		}
	default:
		var overflow bool
		debit.DebitsPosted, overflow = u128.Add(debit.DebitsPosted, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsCredits), nil
		}
		credit.CreditsPosted, overflow = u128.Add(credit.CreditsPosted, t.Amount)
		if overflow {
			return fail(wire.ResultExceedsDebits), nil
		}
	}

	if debit.Flags.Has(wire.AccountDebitsMustNotExceedCredits) {
		pend, o1 := u128.Add(debit.DebitsPending, debit.DebitsPosted)
		cred, o2 := u128.Add(debit.CreditsPending, debit.CreditsPosted)
		if o1 || o2 || u128.Compare(pend, cred) > 0 {
			return fail(wire.ResultExceedsCredits), nil
		}
	}
	if credit.Flags.Has(wire.AccountCreditsMustNotExceedDebits) {
		cred, o1 := u128.Add(credit.CreditsPending, credit.CreditsPosted)
		deb, o2 := u128.Add(credit.DebitsPending, credit.DebitsPosted)
		if o1 || o2 || u128.Compare(cred, deb) > 0 {
			return fail(wire.ResultExceedsDebits), nil
		}
	}

	if t.Flags.Has(wire.TransferImported) {
		if t.Timestamp == 0 {
			return fail(wire.ResultImportedTimestampMustNotBeZero), nil
		}
	} else {
		ts, err := s.Clock(ctx)
		if err != nil {
			return eventOutcome{}, err
		}
		t.Timestamp = ts
	}

	if err := s.Set(ctx, store.AccountKey(debit.ID), wire.EncodeAccount(*debit)); err != nil {
		return eventOutcome{}, err
	}
	if err := s.Set(ctx, store.AccountKey(credit.ID), wire.EncodeAccount(*credit)); err != nil {
		return eventOutcome{}, err
	}
	if err := s.Set(ctx, tKey, wire.EncodeTransfer(t)); err != nil {
		return eventOutcome{}, err
	}
	if twoPhase {
		if err := s.Set(ctx, resolutionKey, t.ID.Bytes()); err != nil {
			return eventOutcome{}, err
		}
	}

	var appended []string
	debitIdxKey := store.AccountTransfersIndexKey(debit.ID)
	creditIdxKey := store.AccountTransfersIndexKey(credit.ID)
	if err := s.Append(ctx, debitIdxKey, t.ID.Bytes()); err != nil {
		return eventOutcome{}, err
	}
	appended = append(appended, debitIdxKey)
	if err := s.Append(ctx, creditIdxKey, t.ID.Bytes()); err != nil {
		return eventOutcome{}, err
	}
	appended = append(appended, creditIdxKey)

	if debit.Flags.Has(wire.AccountHistory) {
		key := store.BalanceHistoryKey(debit.ID)
		snap := wire.AccountBalance{DebitsPending: debit.DebitsPending, DebitsPosted: debit.DebitsPosted, CreditsPending: debit.CreditsPending, CreditsPosted: debit.CreditsPosted}
		if err := s.Append(ctx, key, encodeHistoryRecord(t.Timestamp, snap)); err != nil {
			return eventOutcome{}, err
		}
		appended = append(appended, key)
	}
	if credit.Flags.Has(wire.AccountHistory) {
		key := store.BalanceHistoryKey(credit.ID)
		snap := wire.AccountBalance{DebitsPending: credit.DebitsPending, DebitsPosted: credit.DebitsPosted, CreditsPending: credit.CreditsPending, CreditsPosted: credit.CreditsPosted}
		if err := s.Append(ctx, key, encodeHistoryRecord(t.Timestamp, snap)); err != nil {
			return eventOutcome{}, err
		}
		appended = append(appended, key)
	}

	return ok(tKey, []u128.U128{debit.ID, credit.ID}, appended), nil
}

func loadAccount(ctx context.Context, s store.Store, id u128.U128) (*wire.Account, error) {
	b, err := s.Get(ctx, store.AccountKey(id))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a, err := wire.DecodeAccount(b)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func loadTransferIfExists(ctx context.Context, s store.Store, id u128.U128) (*wire.Transfer, error) {
	b, err := s.Get(ctx, store.TransferKey(id))
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := wire.DecodeTransfer(b)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// transfersEqualModuloTimestamp reports whether a resubmitted transfer
// event is identical to the stored one in every field the client
// controls; the server-stamped timestamp is excluded since the client
// never knows it in advance.
func transfersEqualModuloTimestamp(stored, incoming wire.Transfer) bool {
	stored.Timestamp = 0
	incoming.Timestamp = 0
	return stored == incoming
}
