package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltzhang/lua-beetle/u128"
)

func TestAccountRoundTrip(t *testing.T) {
	a := Account{
		ID:             u128.FromUint64(1),
		DebitsPending:  u128.FromUint64(10),
		DebitsPosted:   u128.FromUint64(20),
		CreditsPending: u128.FromUint64(30),
		CreditsPosted:  u128.FromUint64(40),
		Ledger:         700,
		Code:           1,
		Flags:          AccountHistory | AccountDebitsMustNotExceedCredits,
		Timestamp:      123456789,
	}
	buf := EncodeAccount(a)
	require.Len(t, buf, AccountSize)
	got, err := DecodeAccount(buf)
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestAccountDecodeWrongSize(t *testing.T) {
	_, err := DecodeAccount(make([]byte, 100))
	require.Error(t, err)
}

func TestTransferRoundTrip(t *testing.T) {
	tr := Transfer{
		ID:              u128.FromUint64(9),
		DebitAccountID:  u128.FromUint64(1),
		CreditAccountID: u128.FromUint64(2),
		Amount:          u128.FromUint64(500),
		Ledger:          700,
		Code:            1,
		Flags:           TransferPending,
		Timestamp:       42,
	}
	buf := EncodeTransfer(tr)
	require.Len(t, buf, TransferSize)
	got, err := DecodeTransfer(buf)
	require.NoError(t, err)
	require.Equal(t, tr, got)
}

func TestAccountFilterRoundTrip(t *testing.T) {
	f := AccountFilter{
		AccountID:    u128.FromUint64(1),
		TimestampMin: 10,
		TimestampMax: 20,
		Limit:        50,
		Flags:        FilterDebits | FilterReversed,
	}
	buf := EncodeAccountFilter(f)
	require.Len(t, buf, AccountFilterSize)
	got, err := DecodeAccountFilter(buf)
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestAccountBalanceRoundTrip(t *testing.T) {
	b := AccountBalance{
		DebitsPending:  u128.FromUint64(1),
		DebitsPosted:   u128.FromUint64(2),
		CreditsPending: u128.FromUint64(3),
		CreditsPosted:  u128.FromUint64(4),
	}
	buf := EncodeAccountBalance(b)
	require.Len(t, buf, AccountBalanceSize)
	got, err := DecodeAccountBalance(buf)
	require.NoError(t, err)
	require.Equal(t, b, got)
}

func TestReservedBytesRoundTripAsZero(t *testing.T) {
	a := Account{ID: u128.FromUint64(1), Ledger: 1, Code: 1}
	buf := EncodeAccount(a)
	for i := 108; i < 112; i++ {
		require.Equal(t, byte(0), buf[i])
	}
}
