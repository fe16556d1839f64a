package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerRequiresDACEnabledToStayOn(t *testing.T) {
	a := New(44100, nil)
	a.Write(RegNR12, 0x00) // initial volume 0, envelope direction down: DAC off
	a.Write(RegNR14, 0x80) // trigger
	assert.Equal(t, uint8(0), a.statusByte()&0x01, "square1 stays disabled when its DAC is off")

	a.Write(RegNR12, 0xF0) // initial volume 15: DAC on
	a.Write(RegNR14, 0x80)
	assert.Equal(t, uint8(1), a.statusByte()&0x01)
}

func TestLengthCounterDisablesChannelOnExpiry(t *testing.T) {
	a := New(44100, nil)
	a.Write(RegNR12, 0xF0) // DAC on
	a.Write(RegNR11, 0x3F) // length = 64-63 = 1
	a.Write(RegNR14, 0xC0) // trigger, length enabled

	assert.Equal(t, uint8(1), a.statusByte()&0x01)

	// One frame-sequencer length tick (512 Hz step) should exhaust the
	// single remaining length count and disable the channel.
	for i := 0; i < tCyclesPerFrameSeqStep; i++ {
		a.tickTCycle()
	}
	assert.Equal(t, uint8(0), a.statusByte()&0x01)
}

func TestPowerOffClearsRegistersButPreservesWaveRAM(t *testing.T) {
	a := New(44100, nil)
	a.Write(waveRAMStart, 0xAB)
	a.Write(RegNR50, 0x77)
	a.Write(RegNR51, 0xFF)
	a.Write(RegNR12, 0xF0)
	a.Write(RegNR14, 0x80)

	a.Write(RegNR52, 0x00) // power off
	assert.Equal(t, uint8(0), a.nr50)
	assert.Equal(t, uint8(0), a.nr51)
	assert.Equal(t, uint8(0), a.statusByte()&0x0F, "all channels disabled")
	assert.Equal(t, uint8(0xAB), a.wave.ram[0], "wave RAM survives power-off")
}

func TestRegisterWritesIgnoredWhilePoweredOff(t *testing.T) {
	a := New(44100, nil)
	a.Write(RegNR52, 0x00)
	a.Write(RegNR50, 0x77)
	assert.Equal(t, uint8(0), a.nr50, "register writes are dropped while powered off")
}
