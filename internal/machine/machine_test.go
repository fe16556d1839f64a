package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenfold-systems/dmgcore/internal/coreerr"
	"github.com/tenfold-systems/dmgcore/internal/joypad"
)

// buildROM returns a minimally valid plain-ROM (no MBC) image with a
// correct header checksum and a tiny program at the entry point.
func buildROM(program ...uint8) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], program)
	rom[0x147] = 0x00 // TypeROM

	var acc uint8
	for i := 0x134; i <= 0x14C; i++ {
		acc = acc - rom[i] - 1
	}
	rom[0x14D] = acc
	return rom
}

func TestLoadROMThenStepAdvancesPC(t *testing.T) {
	m := New(44100, nil, nil)
	require.NoError(t, m.LoadROM(buildROM(0x00, 0x00, 0x00))) // NOP NOP NOP

	_, err := m.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0101), m.CPU.PC)
}

func TestStepWithNoCartridgeReadsOpenBus(t *testing.T) {
	m := New(44100, nil, nil)
	// With no cartridge, every ROM-region read returns 0xFF, which decodes
	// as RST 38h rather than faulting.
	_, err := m.Step()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0038), m.CPU.PC)
}

func TestSaveStateRequiresCartridge(t *testing.T) {
	m := New(44100, nil, nil)
	_, err := m.SaveState()
	assert.ErrorIs(t, err, coreerr.ErrSaving)
}

func TestSaveStateRoundTripPreservesCPUState(t *testing.T) {
	m := New(44100, nil, nil)
	require.NoError(t, m.LoadROM(buildROM(0x3E, 0x42))) // LD A,0x42

	_, err := m.Step()
	require.NoError(t, err)
	data, err := m.SaveState()
	require.NoError(t, err)

	m2 := New(44100, nil, nil)
	require.NoError(t, m2.LoadROM(buildROM(0x3E, 0x42)))
	require.NoError(t, m2.LoadState(data))

	assert.Equal(t, m.CPU.A, m2.CPU.A)
	assert.Equal(t, m.CPU.PC, m2.CPU.PC)
}

func TestLoadStateRejectsMismatchedCartridge(t *testing.T) {
	m := New(44100, nil, nil)
	require.NoError(t, m.LoadROM(buildROM(0x00)))
	data, err := m.SaveState()
	require.NoError(t, err)

	other := New(44100, nil, nil)
	otherROM := buildROM(0x00)
	otherROM[0x134] = 'X' // changes the title, and thus the identity slice
	var acc uint8
	for i := 0x134; i <= 0x14C; i++ {
		acc = acc - otherROM[i] - 1
	}
	otherROM[0x14D] = acc
	require.NoError(t, other.LoadROM(otherROM))

	err = other.LoadState(data)
	assert.ErrorIs(t, err, coreerr.ErrCartridgeMismatch)
}

func TestStateHashStableAcrossDeterministicSteps(t *testing.T) {
	m := New(44100, nil, nil)
	require.NoError(t, m.LoadROM(buildROM(0x00, 0x00))) // NOP NOP

	h1, err := m.StateHash()
	require.NoError(t, err)

	_, err = m.Step()
	require.NoError(t, err)
	h2, err := m.StateHash()
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "PC advanced, so the hash must change")
}

func TestApplyInputResumesFromStop(t *testing.T) {
	m := New(44100, nil, nil)
	require.NoError(t, m.LoadROM(buildROM(0x10, 0x00))) // STOP 0

	_, err := m.Step()
	require.NoError(t, err)
	assert.True(t, m.CPU.Stopped())

	m.ApplyInput(joypad.Inputs{Pressed: []joypad.Button{joypad.ButtonA}})
	assert.False(t, m.CPU.Stopped())
}
