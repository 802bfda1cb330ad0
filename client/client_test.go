package client

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ltzhang/lua-beetle/store/memstore"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

func TestClientCreateAccountAndTransfer(t *testing.T) {
	c := New(memstore.New(), zerolog.Nop())
	ctx := context.Background()

	code, err := c.CreateAccount(ctx, wire.Account{ID: u128.FromUint64(1), Ledger: 1, Code: 1})
	require.NoError(t, err)
	require.Equal(t, wire.ResultOK, code)

	code, err = c.CreateAccount(ctx, wire.Account{ID: u128.FromUint64(2), Ledger: 1, Code: 1})
	require.NoError(t, err)
	require.Equal(t, wire.ResultOK, code)

	code, err = c.CreateTransfer(ctx, wire.Transfer{
		ID: u128.FromUint64(100), DebitAccountID: u128.FromUint64(1),
		CreditAccountID: u128.FromUint64(2), Amount: u128.FromUint64(50), Ledger: 1, Code: 1,
	})
	require.NoError(t, err)
	require.Equal(t, wire.ResultOK, code)

	a1, err := c.LookupAccount(ctx, u128.FromUint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(50), a1.DebitsPosted.Uint64())
}

func TestParseIDDecimalAndHex(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	require.Equal(t, u128.FromUint64(42), id)

	hexID, err := ParseID("0000000000000000000000000000002a")
	require.NoError(t, err)
	require.Equal(t, u128.FromUint64(42), hexID)

	_, err = ParseID("not-an-id")
	require.Error(t, err)
}
