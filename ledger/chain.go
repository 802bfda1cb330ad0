package ledger

import (
	"context"

	"github.com/ltzhang/lua-beetle/store"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// eventKind distinguishes which executor function a chain runs, and how
// to peek an event's touched account ids before applying it.
type eventKind int

const (
	kindAccount eventKind = iota
	kindTransfer
)

// touchedAccountsOf returns the account ids a create_transfer event is
// about to mutate, without validating or applying it. Used by the chain
// coordinator to capture pre-images before the first mutation in a
// chain. Decode failures yield no ids; the executor will reject the
// event on its own terms.
func touchedAccountsOf(kind eventKind, buf []byte) []u128.U128 {
	if kind != kindTransfer || len(buf) != wire.TransferSize {
		return nil
	}
	t, err := wire.DecodeTransfer(buf)
	if err != nil {
		return nil
	}
	return []u128.U128{t.DebitAccountID, t.CreditAccountID}
}

func linkedFlagOf(kind eventKind, buf []byte) bool {
	switch kind {
	case kindAccount:
		if len(buf) != wire.AccountSize {
			return false
		}
		a, err := wire.DecodeAccount(buf)
		if err != nil {
			return false
		}
		return a.Flags.Has(wire.AccountLinked)
	default:
		if len(buf) != wire.TransferSize {
			return false
		}
		t, err := wire.DecodeTransfer(buf)
		if err != nil {
			return false
		}
		return t.Flags.Has(wire.TransferLinked)
	}
}

func applyEvent(ctx context.Context, s store.Store, kind eventKind, buf []byte) (eventOutcome, error) {
	if kind == kindAccount {
		return executeCreateAccount(ctx, s, buf, true)
	}
	return executeCreateTransfer(ctx, s, buf, true)
}

// chainState is the per-active-chain bookkeeping described in §4.4:
// the pre-chain image of every account a chain event has mutated, and
// the pre-chain byte length of every index/history key a chain event
// has appended to.
type chainState struct {
	start            int
	modifiedAccounts map[u128.U128][]byte // nil value means "did not exist before the chain"
	hadAccount       map[u128.U128]bool
	indexLengths     map[string]int64
	createdKeys      []string
}

func newChainState(start int) *chainState {
	return &chainState{
		start:            start,
		modifiedAccounts: make(map[u128.U128][]byte),
		hadAccount:       make(map[u128.U128]bool),
		indexLengths:     make(map[string]int64),
	}
}

// captureAccount records id's pre-chain image the first time any event
// in the chain is about to touch it.
func (cs *chainState) captureAccount(ctx context.Context, s store.Store, id u128.U128) error {
	if _, done := cs.hadAccount[id]; done {
		return nil
	}
	b, err := s.Get(ctx, store.AccountKey(id))
	if err == store.ErrNotFound {
		cs.hadAccount[id] = true
		cs.modifiedAccounts[id] = nil
		return nil
	}
	if err != nil {
		return err
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	cs.hadAccount[id] = true
	cs.modifiedAccounts[id] = cp
	return nil
}

func (cs *chainState) captureIndexLength(ctx context.Context, s store.Store, key string) error {
	if _, done := cs.indexLengths[key]; done {
		return nil
	}
	n, err := s.Length(ctx, key)
	if err != nil {
		return err
	}
	cs.indexLengths[key] = n
	return nil
}

// rollback undoes every effect of the chain's events, per the §4.4
// algorithm: delete created records, restore account pre-images, and
// truncate indexes/history back to their pre-chain lengths.
func (cs *chainState) rollback(ctx context.Context, s store.Store) error {
	for _, key := range cs.createdKeys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	for id, image := range cs.modifiedAccounts {
		key := store.AccountKey(id)
		if image == nil {
			if err := s.Delete(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := s.Set(ctx, key, image); err != nil {
			return err
		}
	}
	for key, n := range cs.indexLengths {
		if n == 0 {
			if err := s.Delete(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := s.Truncate(ctx, key, n); err != nil {
			return err
		}
	}
	return nil
}

// runChained drives events (all of the same kind) through the chain
// coordinator state machine described in §4.4 and returns one result
// code per event.
func runChained(ctx context.Context, s store.Store, kind eventKind, events [][]byte) ([]wire.ResultCode, error) {
	results := make([]wire.ResultCode, len(events))
	var chain *chainState

	for i := 0; i < len(events); i++ {
		buf := events[i]
		linked := linkedFlagOf(kind, buf)

		// cs is the chain state this event's touched-account pre-images
		// get captured into. If no chain is open yet, this event might
		// be the one that opens one, so it gets a speculative state of
		// its own; that state is kept only if the event actually
		// succeeds and sets linked.
		opening := chain == nil
		cs := chain
		if opening {
			cs = newChainState(i)
		}
		for _, id := range touchedAccountsOf(kind, buf) {
			if err := cs.captureAccount(ctx, s, id); err != nil {
				return nil, err
			}
			for _, key := range []string{store.AccountTransfersIndexKey(id), store.BalanceHistoryKey(id)} {
				if err := cs.captureIndexLength(ctx, s, key); err != nil {
					return nil, err
				}
			}
		}

		outcome, err := applyEvent(ctx, s, kind, buf)
		if err != nil {
			return nil, err
		}

		if outcome.code == wire.ResultOK {
			for _, key := range outcome.appendedIndexKeys {
				if err := cs.captureIndexLength(ctx, s, key); err != nil {
					return nil, err
				}
			}
			if outcome.createdKey != "" {
				cs.createdKeys = append(cs.createdKeys, outcome.createdKey)
			}

			switch {
			case opening && !linked:
				// No chain after all; cs is discarded unused.
				results[i] = wire.ResultOK

			case opening && linked:
				chain = cs
				results[i] = wire.ResultOK

			case !opening && linked:
				results[i] = wire.ResultOK

			case !opening && !linked:
				results[i] = wire.ResultOK
				for j := chain.start; j < i; j++ {
					results[j] = wire.ResultOK
				}
				chain = nil
			}
			continue
		}

		// Failure: this event's own code stands; every other event in
		// the chain it belongs to becomes linked_event_failed. A chain
		// opens at a linked event regardless of whether that event
		// itself succeeds, so a failing event with linked set still
		// dooms the rest of the contiguous linked run through its
		// terminating non-linked event — even though no chain was
		// promoted yet and nothing has been written for this event.
		if !opening {
			if err := chain.rollback(ctx, s); err != nil {
				return nil, err
			}
			for j := chain.start; j < i; j++ {
				results[j] = wire.ResultLinkedEventFailed
			}
		}
		results[i] = outcome.code
		chain = nil

		if linked {
			j := i + 1
			for ; j < len(events); j++ {
				results[j] = wire.ResultLinkedEventFailed
				if !linkedFlagOf(kind, events[j]) {
					j++
					break
				}
			}
			i = j - 1
		}
	}

	if chain != nil {
		if err := chain.rollback(ctx, s); err != nil {
			return nil, err
		}
		for j := chain.start; j < len(events); j++ {
			results[j] = wire.ResultLinkedEventChainOpen
		}
	}

	return results, nil
}
