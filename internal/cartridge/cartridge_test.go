package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenfold-systems/dmgcore/internal/coreerr"
)

// buildROM returns a minimally valid two-bank ROM image of the given
// cartridge type, with a correct header checksum.
func buildROM(cartType Type) []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = byte(cartType)
	rom[0x148] = 0x01 // 4 banks declared (unused by New beyond informational fields)
	rom[0x149] = 0x00

	var acc uint8
	for i := 0x134; i <= 0x14C; i++ {
		acc = acc - rom[i] - 1
	}
	rom[0x14D] = acc
	return rom
}

func TestNewRejectsTooSmallROM(t *testing.T) {
	_, err := New(make([]byte, 0x10))
	assert.ErrorIs(t, err, coreerr.ErrCartridgeTooSmall)
}

func TestNewRejectsBadChecksum(t *testing.T) {
	rom := buildROM(TypeROM)
	rom[0x14D] ^= 0xFF
	_, err := New(rom)
	assert.ErrorIs(t, err, coreerr.ErrBadHeaderChecksum)
}

func TestNewRejectsUnsupportedType(t *testing.T) {
	rom := buildROM(Type(0x20)) // MBC6, out of scope
	_, err := New(rom)
	assert.ErrorIs(t, err, coreerr.ErrUnsupportedCartridgeType)
}

func TestNewConstructsMatchingMBC(t *testing.T) {
	rom := buildROM(TypeMBC1)
	c, err := New(rom)
	require.NoError(t, err)
	_, ok := c.mbc.(*mbc1)
	assert.True(t, ok)
	assert.Equal(t, "MBC1", c.Header().CartridgeType.String())
}

func TestIdentitySliceIsStableAndHeaderSized(t *testing.T) {
	rom := buildROM(TypeROM)
	c, err := New(rom)
	require.NoError(t, err)

	id1 := c.IdentitySlice()
	id2 := c.IdentitySlice()
	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 0x50)
}
