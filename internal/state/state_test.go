package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarRoundTrip(t *testing.T) {
	s := New()
	s.Write8(0x12)
	s.Write16(0x3456)
	s.Write32(0x789ABCDE)
	s.Write64(0x0102030405060708)
	s.WriteBool(true)
	s.WriteBool(false)

	r := FromBytes(s.Bytes())
	assert.Equal(t, uint8(0x12), r.Read8())
	assert.Equal(t, uint16(0x3456), r.Read16())
	assert.Equal(t, uint32(0x789ABCDE), r.Read32())
	assert.Equal(t, uint64(0x0102030405060708), r.Read64())
	assert.True(t, r.ReadBool())
	assert.False(t, r.ReadBool())
	assert.NoError(t, r.Err())
}

func TestWriteBytesIsLengthPrefixed(t *testing.T) {
	s := New()
	s.WriteBytes([]byte{1, 2, 3})
	s.Write8(0xFF)

	r := FromBytes(s.Bytes())
	assert.Equal(t, []byte{1, 2, 3}, r.ReadBytes())
	assert.Equal(t, uint8(0xFF), r.Read8())
}

func TestWriteRawHasNoLengthPrefix(t *testing.T) {
	s := New()
	s.WriteRaw([]byte{0xAA, 0xBB, 0xCC})

	r := FromBytes(s.Bytes())
	buf := make([]byte, 3)
	r.ReadRaw(buf)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, buf)
}

func TestShortReadStickyFailsAllSubsequentReads(t *testing.T) {
	r := FromBytes([]byte{0x01})
	assert.Equal(t, uint8(0x01), r.Read8())

	// Nothing left: this read goes out of bounds.
	got := r.Read16()
	assert.Equal(t, uint16(0), got)
	assert.Error(t, r.Err())

	// Once failed, further reads are no-ops returning the zero value
	// rather than panicking or advancing further.
	assert.Equal(t, uint8(0), r.Read8())
	assert.Error(t, r.Err())
}

func TestReadBytesOutOfBoundsLengthFailsCleanly(t *testing.T) {
	s := New()
	s.Write32(1000) // claims 1000 bytes follow, but none do

	r := FromBytes(s.Bytes())
	assert.Nil(t, r.ReadBytes())
	assert.Error(t, r.Err())
}
