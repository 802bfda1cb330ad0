package wire

import (
	"fmt"

	"github.com/ltzhang/lua-beetle/u128"
)

const (
	AccountSize       = 128
	TransferSize      = 128
	AccountFilterSize = 128
	// AccountBalanceSize is 64, per the get_account_balances wire
	// contract ("balances[64·K]"), which takes precedence over the
	// summary table's field list (timestamp+4×u128 sums to 72, one
	// reading too many for a 64-byte record). The timestamp is not
	// carried in the wire record; a balance snapshot's position in the
	// append-only history already fixes its commit order. See
	// DESIGN.md.
	AccountBalanceSize = 64
)

// Account mirrors the 128-byte on-disk/on-wire record. Field order matches
// byte offset order, not struct-packing convenience.
type Account struct {
	ID             u128.U128
	DebitsPending  u128.U128
	DebitsPosted   u128.U128
	CreditsPending u128.U128
	CreditsPosted  u128.U128
	UserData128    u128.U128
	UserData64     uint64
	UserData32     uint32
	Reserved       uint32
	Ledger         uint32
	Code           uint16
	Flags          AccountFlags
	Timestamp      uint64
}

// EncodeAccount writes a to a freshly allocated 128-byte buffer.
func EncodeAccount(a Account) []byte {
	buf := make([]byte, AccountSize)
	copy(buf[0:16], a.ID[:])
	copy(buf[16:32], a.DebitsPending[:])
	copy(buf[32:48], a.DebitsPosted[:])
	copy(buf[48:64], a.CreditsPending[:])
	copy(buf[64:80], a.CreditsPosted[:])
	copy(buf[80:96], a.UserData128[:])
	putUint64(buf[96:104], a.UserData64)
	putUint32(buf[104:108], a.UserData32)
	putUint32(buf[108:112], a.Reserved)
	putUint32(buf[112:116], a.Ledger)
	putUint16(buf[116:118], a.Code)
	putUint16(buf[118:120], uint16(a.Flags))
	putUint64(buf[120:128], a.Timestamp)
	return buf
}

// DecodeAccount parses a 128-byte buffer into an Account. It returns
// ResultInvalidDataSize wrapped as an error if b is not exactly 128 bytes;
// it does not itself enforce the reserved-must-be-zero invariant, which is
// checked by the event validators in ledger since the requirement differs
// between request and stored-record decoding.
func DecodeAccount(b []byte) (Account, error) {
	if len(b) != AccountSize {
		return Account{}, fmt.Errorf("wire: account: %w", errInvalidSize(len(b), AccountSize))
	}
	var a Account
	copy(a.ID[:], b[0:16])
	copy(a.DebitsPending[:], b[16:32])
	copy(a.DebitsPosted[:], b[32:48])
	copy(a.CreditsPending[:], b[48:64])
	copy(a.CreditsPosted[:], b[64:80])
	copy(a.UserData128[:], b[80:96])
	a.UserData64 = getUint64(b[96:104])
	a.UserData32 = getUint32(b[104:108])
	a.Reserved = getUint32(b[108:112])
	a.Ledger = getUint32(b[112:116])
	a.Code = getUint16(b[116:118])
	a.Flags = AccountFlags(getUint16(b[118:120]))
	a.Timestamp = getUint64(b[120:128])
	return a, nil
}

// Transfer mirrors the 128-byte on-disk/on-wire record.
type Transfer struct {
	ID              u128.U128
	DebitAccountID  u128.U128
	CreditAccountID u128.U128
	Amount          u128.U128
	PendingID       u128.U128
	UserData128     u128.U128
	UserData64      uint64
	UserData32      uint32
	Timeout         uint32
	Ledger          uint32
	Code            uint16
	Flags           TransferFlags
	Timestamp       uint64
}

func EncodeTransfer(t Transfer) []byte {
	buf := make([]byte, TransferSize)
	copy(buf[0:16], t.ID[:])
	copy(buf[16:32], t.DebitAccountID[:])
	copy(buf[32:48], t.CreditAccountID[:])
	copy(buf[48:64], t.Amount[:])
	copy(buf[64:80], t.PendingID[:])
	copy(buf[80:96], t.UserData128[:])
	putUint64(buf[96:104], t.UserData64)
	putUint32(buf[104:108], t.UserData32)
	putUint32(buf[108:112], t.Timeout)
	putUint32(buf[112:116], t.Ledger)
	putUint16(buf[116:118], t.Code)
	putUint16(buf[118:120], uint16(t.Flags))
	putUint64(buf[120:128], t.Timestamp)
	return buf
}

func DecodeTransfer(b []byte) (Transfer, error) {
	if len(b) != TransferSize {
		return Transfer{}, fmt.Errorf("wire: transfer: %w", errInvalidSize(len(b), TransferSize))
	}
	var t Transfer
	copy(t.ID[:], b[0:16])
	copy(t.DebitAccountID[:], b[16:32])
	copy(t.CreditAccountID[:], b[32:48])
	copy(t.Amount[:], b[48:64])
	copy(t.PendingID[:], b[64:80])
	copy(t.UserData128[:], b[80:96])
	t.UserData64 = getUint64(b[96:104])
	t.UserData32 = getUint32(b[104:108])
	t.Timeout = getUint32(b[108:112])
	t.Ledger = getUint32(b[112:116])
	t.Code = getUint16(b[116:118])
	t.Flags = TransferFlags(getUint16(b[118:120]))
	t.Timestamp = getUint64(b[120:128])
	return t, nil
}

// AccountFilter mirrors the 128-byte query-request record used by
// GetAccountTransfers and GetAccountBalances.
type AccountFilter struct {
	AccountID    u128.U128
	UserData128  u128.U128
	UserData64   uint64
	UserData32   uint32
	Reserved1    uint16
	Code         uint16
	TimestampMin uint64
	TimestampMax uint64
	Limit        uint32
	Flags        FilterFlags
	Reserved2    [56]byte
}

func EncodeAccountFilter(f AccountFilter) []byte {
	buf := make([]byte, AccountFilterSize)
	copy(buf[0:16], f.AccountID[:])
	copy(buf[16:32], f.UserData128[:])
	putUint64(buf[32:40], f.UserData64)
	putUint32(buf[40:44], f.UserData32)
	putUint16(buf[44:46], f.Reserved1)
	putUint16(buf[46:48], f.Code)
	putUint64(buf[48:56], f.TimestampMin)
	putUint64(buf[56:64], f.TimestampMax)
	putUint32(buf[64:68], f.Limit)
	putUint32(buf[68:72], uint32(f.Flags))
	copy(buf[72:128], f.Reserved2[:])
	return buf
}

func DecodeAccountFilter(b []byte) (AccountFilter, error) {
	if len(b) != AccountFilterSize {
		return AccountFilter{}, fmt.Errorf("wire: account_filter: %w", errInvalidSize(len(b), AccountFilterSize))
	}
	var f AccountFilter
	copy(f.AccountID[:], b[0:16])
	copy(f.UserData128[:], b[16:32])
	f.UserData64 = getUint64(b[32:40])
	f.UserData32 = getUint32(b[40:44])
	f.Reserved1 = getUint16(b[44:46])
	f.Code = getUint16(b[46:48])
	f.TimestampMin = getUint64(b[48:56])
	f.TimestampMax = getUint64(b[56:64])
	f.Limit = getUint32(b[64:68])
	f.Flags = FilterFlags(getUint32(b[68:72]))
	copy(f.Reserved2[:], b[72:128])
	return f, nil
}

// AccountBalance mirrors the 64-byte balance-history snapshot record
// returned by GetAccountBalances: the four account balance fields as they
// stood immediately after one successful transfer involving the account.
// The history store keeps these in commit order, which is what lets a
// caller correlate a snapshot back to the transfer that produced it
// without a timestamp field taking up wire space.
type AccountBalance struct {
	DebitsPending  u128.U128
	DebitsPosted   u128.U128
	CreditsPending u128.U128
	CreditsPosted  u128.U128
}

func EncodeAccountBalance(b AccountBalance) []byte {
	buf := make([]byte, AccountBalanceSize)
	copy(buf[0:16], b.DebitsPending[:])
	copy(buf[16:32], b.DebitsPosted[:])
	copy(buf[32:48], b.CreditsPending[:])
	copy(buf[48:64], b.CreditsPosted[:])
	return buf
}

func DecodeAccountBalance(b []byte) (AccountBalance, error) {
	if len(b) != AccountBalanceSize {
		return AccountBalance{}, fmt.Errorf("wire: account_balance: %w", errInvalidSize(len(b), AccountBalanceSize))
	}
	var ab AccountBalance
	copy(ab.DebitsPending[:], b[0:16])
	copy(ab.DebitsPosted[:], b[16:32])
	copy(ab.CreditsPending[:], b[32:48])
	copy(ab.CreditsPosted[:], b[48:64])
	return ab, nil
}

func errInvalidSize(got, want int) error {
	return fmt.Errorf("expected %d bytes, got %d (result=%s)", want, got, ResultInvalidDataSize)
}

func putUint16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putUint32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func getUint32(b []byte) uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(b[i]) << (8 * i)
	}
	return v
}
func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
