// Package ledger implements the transaction executor, chain coordinator,
// index/history maintenance, and query processor against a store.Store.
// The Engine type is the single entry point a client embeds; every
// method opens exactly one store.Batcher.Batch, matching the
// single-threaded-per-batch execution model the package is built
// against.
package ledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ltzhang/lua-beetle/store"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// Engine drives events against a store.Batcher.
type Engine struct {
	batcher store.Batcher
	log     zerolog.Logger
}

// New returns an Engine over b. The zero value of log is a valid no-op
// logger; callers that want events logged pass a configured one.
func New(b store.Batcher, log zerolog.Logger) *Engine {
	return &Engine{batcher: b, log: log}
}

// CreateAccount runs the single-event create_account entry point. The
// linked flag is rejected here (ResultLinkedEventChainOpen) since a
// single event can never belong to a chain; use CreateChainedAccounts
// for that.
func (e *Engine) CreateAccount(ctx context.Context, event []byte) (wire.ResultCode, error) {
	var code wire.ResultCode
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		outcome, err := executeCreateAccount(ctx, s, event, false)
		if err != nil {
			return err
		}
		code = outcome.code
		return nil
	})
	if err != nil {
		return 0, err
	}
	return code, nil
}

// CreateTransfer runs the single-event create_transfer entry point.
func (e *Engine) CreateTransfer(ctx context.Context, event []byte) (wire.ResultCode, error) {
	var code wire.ResultCode
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		outcome, err := executeCreateTransfer(ctx, s, event, false)
		if err != nil {
			return err
		}
		code = outcome.code
		return nil
	})
	if err != nil {
		return 0, err
	}
	return code, nil
}

// CreateChainedAccounts runs a slice of create_account events through the
// chain coordinator, honoring linked chains across the slice.
func (e *Engine) CreateChainedAccounts(ctx context.Context, events [][]byte) ([]wire.ResultCode, error) {
	var results []wire.ResultCode
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		r, err := runChained(ctx, s, kindAccount, events)
		if err != nil {
			return err
		}
		results = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// CreateChainedTransfers runs a slice of create_transfer events through
// the chain coordinator.
func (e *Engine) CreateChainedTransfers(ctx context.Context, events [][]byte) ([]wire.ResultCode, error) {
	var results []wire.ResultCode
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		r, err := runChained(ctx, s, kindTransfer, events)
		if err != nil {
			return err
		}
		results = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LookupAccount returns the stored account for id, or (nil, nil) if
// absent.
func (e *Engine) LookupAccount(ctx context.Context, id u128.U128) (*wire.Account, error) {
	var out *wire.Account
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		a, err := loadAccount(ctx, s, id)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: lookup_account: %w", err)
	}
	return out, nil
}

// LookupTransfer returns the stored transfer for id, or (nil, nil) if
// absent.
func (e *Engine) LookupTransfer(ctx context.Context, id u128.U128) (*wire.Transfer, error) {
	var out *wire.Transfer
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		t, err := loadTransferIfExists(ctx, s, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: lookup_transfer: %w", err)
	}
	return out, nil
}

// GetAccountTransfers implements the get_account_transfers entry point.
func (e *Engine) GetAccountTransfers(ctx context.Context, filter wire.AccountFilter) ([]wire.Transfer, error) {
	var out []wire.Transfer
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		r, err := getAccountTransfers(ctx, s, filter)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: get_account_transfers: %w", err)
	}
	return out, nil
}

// GetAccountBalances implements the get_account_balances entry point.
func (e *Engine) GetAccountBalances(ctx context.Context, filter wire.AccountFilter) ([]wire.AccountBalance, error) {
	var out []wire.AccountBalance
	err := e.batcher.Batch(ctx, func(s store.Store) error {
		r, err := getAccountBalances(ctx, s, filter)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger: get_account_balances: %w", err)
	}
	return out, nil
}
