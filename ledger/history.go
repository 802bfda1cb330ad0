package ledger

import "github.com/ltzhang/lua-beetle/wire"

// historyRecordSize is the internal on-store layout for one balance
// history entry: the transfer's timestamp (8 bytes) followed by the
// 64-byte AccountBalance wire record. The wire AccountBalance itself
// carries no timestamp (get_account_balances returns 64·K bytes), but
// get_account_balances filtering is specified as symmetric with
// get_account_transfers, which does filter by timestamp range — so the
// timestamp has to live somewhere. Keeping it out-of-band here lets the
// response stay wire-exact while still supporting timestamp_min/max.
const historyRecordSize = 8 + wire.AccountBalanceSize

func encodeHistoryRecord(timestamp uint64, bal wire.AccountBalance) []byte {
	buf := make([]byte, historyRecordSize)
	putUint64(buf[0:8], timestamp)
	copy(buf[8:], wire.EncodeAccountBalance(bal))
	return buf
}

func decodeHistoryRecord(b []byte) (uint64, wire.AccountBalance, error) {
	ts := getUint64(b[0:8])
	bal, err := wire.DecodeAccountBalance(b[8:])
	return ts, bal, err
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
