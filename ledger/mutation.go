package ledger

import (
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

// eventOutcome is what the chain coordinator needs to know about one
// applied event beyond its result code: what it created (for rollback
// deletion), which accounts it touched (for pre-image capture), and
// which index/history keys it appended to (for original-length capture).
type eventOutcome struct {
	code wire.ResultCode

	// createdKey, if non-empty, is the store key of a brand-new record
	// this event wrote (an account or a transfer). Rollback deletes it.
	createdKey string

	// touchedAccounts are the ids of accounts whose balances this event
	// mutated in place (empty for account creation, which has no
	// pre-chain image to restore).
	touchedAccounts []u128.U128

	// appendedIndexKeys are index/history keys this event appended to.
	appendedIndexKeys []string
}

func ok(createdKey string, touched []u128.U128, appended []string) eventOutcome {
	return eventOutcome{code: wire.ResultOK, createdKey: createdKey, touchedAccounts: touched, appendedIndexKeys: appended}
}

func fail(code wire.ResultCode) eventOutcome {
	return eventOutcome{code: code}
}
