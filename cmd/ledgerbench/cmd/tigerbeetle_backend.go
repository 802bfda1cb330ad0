package cmd

import (
	"context"
	"fmt"

	tb "github.com/tigerbeetle/tigerbeetle-go"
	"github.com/tigerbeetle/tigerbeetle-go/pkg/types"

	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// tigerBeetleBackend adapts a real tigerbeetle-go client to
// workload.Backend, so ledgerbench can run the same worker loop against
// an actual TigerBeetle cluster as a comparison baseline.
type tigerBeetleBackend struct {
	client tb.Client
}

func newTigerBeetleBackend(addresses []string) (*tigerBeetleBackend, error) {
	client, err := tb.NewClient(types.ToUint128(0), addresses)
	if err != nil {
		return nil, fmt.Errorf("tigerbeetle: new client: %w", err)
	}
	return &tigerBeetleBackend{client: client}, nil
}

func (b *tigerBeetleBackend) Close() error {
	b.client.Close()
	return nil
}

func toTBUint128(id u128.U128) types.Uint128 {
	var out types.Uint128
	copy(out[:], id[:])
	return out
}

func fromTBUint128(id types.Uint128) u128.U128 {
	var out u128.U128
	copy(out[:], id[:])
	return out
}

func (b *tigerBeetleBackend) CreateAccount(_ context.Context, a wire.Account) (wire.ResultCode, error) {
	results, err := b.client.CreateAccounts([]types.Account{{
		ID:     toTBUint128(a.ID),
		Ledger: a.Ledger,
		Code:   a.Code,
		Flags:  uint16(a.Flags),
	}})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return wire.ResultOK, nil
	}
	return wire.ResultCode(results[0].Result), nil
}

func (b *tigerBeetleBackend) CreateLinkedAccounts(_ context.Context, accounts []wire.Account) ([]wire.ResultCode, error) {
	batch := make([]types.Account, len(accounts))
	for i, a := range accounts {
		batch[i] = types.Account{
			ID:     toTBUint128(a.ID),
			Ledger: a.Ledger,
			Code:   a.Code,
			Flags:  uint16(a.Flags),
		}
	}
	errs, err := b.client.CreateAccounts(batch)
	if err != nil {
		return nil, err
	}
	out := make([]wire.ResultCode, len(accounts))
	for i := range out {
		out[i] = wire.ResultOK
	}
	for _, e := range errs {
		out[e.Index] = wire.ResultCode(e.Result)
	}
	return out, nil
}

func (b *tigerBeetleBackend) CreateTransfer(_ context.Context, t wire.Transfer) (wire.ResultCode, error) {
	results, err := b.client.CreateTransfers([]types.Transfer{{
		ID:              toTBUint128(t.ID),
		DebitAccountID:  toTBUint128(t.DebitAccountID),
		CreditAccountID: toTBUint128(t.CreditAccountID),
		Amount:          toTBUint128(t.Amount),
		PendingID:       toTBUint128(t.PendingID),
		Ledger:          t.Ledger,
		Code:            t.Code,
		Flags:           uint16(t.Flags),
	}})
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return wire.ResultOK, nil
	}
	return wire.ResultCode(results[0].Result), nil
}

func (b *tigerBeetleBackend) LookupAccount(_ context.Context, id u128.U128) (*wire.Account, error) {
	accounts, err := b.client.LookupAccounts([]types.Uint128{toTBUint128(id)})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	a := accounts[0]
	return &wire.Account{
		ID:             fromTBUint128(a.ID),
		DebitsPending:  fromTBUint128(a.DebitsPending),
		DebitsPosted:   fromTBUint128(a.DebitsPosted),
		CreditsPending: fromTBUint128(a.CreditsPending),
		CreditsPosted:  fromTBUint128(a.CreditsPosted),
		Ledger:         a.Ledger,
		Code:           a.Code,
		Flags:          wire.AccountFlags(a.Flags),
		Timestamp:      a.Timestamp,
	}, nil
}
