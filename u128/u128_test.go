package u128

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNoCarry(t *testing.T) {
	a := FromUint64(100)
	b := FromUint64(200)
	sum, overflow := Add(a, b)
	require.False(t, overflow)
	require.Equal(t, uint64(300), sum.Uint64())
}

func TestAddOverflow(t *testing.T) {
	max := U128{}
	for i := range max {
		max[i] = 0xff
	}
	sum, overflow := Add(max, FromUint64(1))
	require.True(t, overflow)
	require.True(t, IsZero(sum))
}

func TestAddCarriesAcrossLowWord(t *testing.T) {
	// Exercise carry propagation past the first 8 bytes (the boundary a
	// native-uint64 shortcut would miss).
	a := U128{}
	for i := 0; i < 8; i++ {
		a[i] = 0xff
	}
	sum, overflow := Add(a, FromUint64(1))
	require.False(t, overflow)
	require.Equal(t, uint64(0), sum.Uint64())
	require.Equal(t, byte(1), sum[8])
}

func TestSubUnderflow(t *testing.T) {
	_, ok := Sub(FromUint64(5), FromUint64(6))
	require.False(t, ok)
}

func TestSubExact(t *testing.T) {
	diff, ok := Sub(FromUint64(500), FromUint64(500))
	require.True(t, ok)
	require.True(t, IsZero(diff))
}

func TestSubBorrowAcrossWord(t *testing.T) {
	a := U128{}
	a[8] = 1 // 2^64
	diff, ok := Sub(a, FromUint64(1))
	require.True(t, ok)
	require.Equal(t, ^uint64(0), diff.Uint64())
	require.Equal(t, byte(0), diff[8])
}

func TestCompare(t *testing.T) {
	require.Equal(t, -1, Compare(FromUint64(1), FromUint64(2)))
	require.Equal(t, 1, Compare(FromUint64(2), FromUint64(1)))
	require.Equal(t, 0, Compare(FromUint64(9), FromUint64(9)))

	big := U128{}
	big[15] = 1 // high byte set, dwarfs any uint64 value
	require.Equal(t, 1, Compare(big, FromUint64(^uint64(0))))
}

func TestHexRoundTrip(t *testing.T) {
	v := FromUint64(0x0102030405060708)
	h := v.Hex()
	require.Len(t, h, 32)
	require.Equal(t, "00000000000000000102030405060708", h)
	back, err := FromBytes(v.Bytes())
	require.NoError(t, err)
	require.Equal(t, v, back)
}

func TestFromBytesWrongLength(t *testing.T) {
	_, err := FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
