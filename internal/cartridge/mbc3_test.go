package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

func TestMBC3RomBankZeroCorrectsToOne(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*4), 0x2000)
	m.WriteROM(0x2000, 0x00)
	assert.Equal(t, uint8(1), m.romBank)
}

func TestMBC3RamRequiresEnableLatch(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0x2000)
	m.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000), "RAM must be gated until 0x0A is written below 0x2000")

	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadRAM(0xA000))
}

func TestMBC3LatchRequiresZeroThenOne(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0)
	m.rtc[rtcSeconds] = 30

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)
	assert.Equal(t, uint8(30), m.latched[rtcSeconds])

	m.rtc[rtcSeconds] = 59
	// Not a 0-then-1 sequence: the latch must not update.
	m.WriteROM(0x6000, 0x01)
	assert.Equal(t, uint8(30), m.latched[rtcSeconds])
}

func TestMBC3TickRTCRollsSecondsIntoMinutes(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0)
	m.WriteROM(0x0000, 0x0A) // enable so selector reads apply

	m.TickRTC(machineCyclesPerSecond * 60)
	assert.Equal(t, uint8(0), m.rtc[rtcSeconds])
	assert.Equal(t, uint8(1), m.rtc[rtcMinutes])
}

func TestMBC3TickRTCHaltedWhenDayHighBit6Set(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0)
	m.rtc[rtcDayHigh] = 0x40

	m.TickRTC(machineCyclesPerSecond * 10)
	assert.Equal(t, uint8(0), m.rtc[rtcSeconds], "halted clock must not advance")
}

func TestMBC3DayCounterOverflowSetsCarry(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0)
	m.rtc[rtcDayLow] = 0xFF
	m.rtc[rtcDayHigh] = 0x01 // day bit 8 set -> day 511
	m.rtc[rtcHours] = 23
	m.rtc[rtcMinutes] = 59
	m.rtc[rtcSeconds] = 59

	m.TickRTC(machineCyclesPerSecond)
	assert.Equal(t, uint8(0), m.rtc[rtcDayLow])
	assert.Equal(t, uint8(0x80), m.rtc[rtcDayHigh]&0x80, "day carry bit must be set on overflow past day 511")
}

func TestMBC3SaveLoadRoundTrip(t *testing.T) {
	m := newMBC3(make([]byte, 0x4000*2), 0x2000)
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x99)
	m.rtc[rtcHours] = 5

	s := state.New()
	m.Save(s)

	m2 := newMBC3(make([]byte, 0x4000*2), 0x2000)
	m2.Load(state.FromBytes(s.Bytes()))

	assert.Equal(t, uint8(0x99), m2.ReadRAM(0xA000))
	assert.Equal(t, uint8(5), m2.rtc[rtcHours])
}
