// Package client is the entry point an embedding Go program uses: it
// owns a store.Batcher and a ledger.Engine and exposes the same
// operations an external wire client would call, but as native Go
// methods over wire.* structs instead of raw byte buffers.
package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ltzhang/lua-beetle/ledger"
	"github.com/ltzhang/lua-beetle/store"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// Client wraps a ledger.Engine bound to one store.Batcher backend.
type Client struct {
	engine *ledger.Engine
}

// New returns a Client over backend, logging through log.
func New(backend store.Batcher, log zerolog.Logger) *Client {
	return &Client{engine: ledger.New(backend, log)}
}

// CreateAccount submits a single create_account event.
func (c *Client) CreateAccount(ctx context.Context, a wire.Account) (wire.ResultCode, error) {
	return c.engine.CreateAccount(ctx, wire.EncodeAccount(a))
}

// CreateTransfer submits a single create_transfer event.
func (c *Client) CreateTransfer(ctx context.Context, t wire.Transfer) (wire.ResultCode, error) {
	return c.engine.CreateTransfer(ctx, wire.EncodeTransfer(t))
}

// CreateLinkedAccounts submits a chain of create_account events.
func (c *Client) CreateLinkedAccounts(ctx context.Context, accounts []wire.Account) ([]wire.ResultCode, error) {
	events := make([][]byte, len(accounts))
	for i, a := range accounts {
		events[i] = wire.EncodeAccount(a)
	}
	return c.engine.CreateChainedAccounts(ctx, events)
}

// CreateLinkedTransfers submits a chain of create_transfer events.
func (c *Client) CreateLinkedTransfers(ctx context.Context, transfers []wire.Transfer) ([]wire.ResultCode, error) {
	events := make([][]byte, len(transfers))
	for i, t := range transfers {
		events[i] = wire.EncodeTransfer(t)
	}
	return c.engine.CreateChainedTransfers(ctx, events)
}

// LookupAccount fetches one account by id.
func (c *Client) LookupAccount(ctx context.Context, id u128.U128) (*wire.Account, error) {
	return c.engine.LookupAccount(ctx, id)
}

// LookupTransfer fetches one transfer by id.
func (c *Client) LookupTransfer(ctx context.Context, id u128.U128) (*wire.Transfer, error) {
	return c.engine.LookupTransfer(ctx, id)
}

// GetAccountTransfers runs the get_account_transfers query.
func (c *Client) GetAccountTransfers(ctx context.Context, f wire.AccountFilter) ([]wire.Transfer, error) {
	return c.engine.GetAccountTransfers(ctx, f)
}

// GetAccountBalances runs the get_account_balances query.
func (c *Client) GetAccountBalances(ctx context.Context, f wire.AccountFilter) ([]wire.AccountBalance, error) {
	return c.engine.GetAccountBalances(ctx, f)
}

// ParseID accepts either a decimal or 32-character lowercase-hex id
// string, for CLI convenience; decimal is tried first since most example
// ids in the source's own tests are small decimals ("10", "600", ...).
func ParseID(s string) (u128.U128, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u128.FromUint64(v), nil
	}
	if len(s) != 32 {
		return u128.U128{}, fmt.Errorf("client: id must be a decimal number or 32 hex characters, got %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return u128.U128{}, fmt.Errorf("client: invalid hex id %q: %w", s, err)
	}
	var id u128.U128
	for i := 0; i < 16; i++ {
		id[i] = raw[15-i]
	}
	return id, nil
}
