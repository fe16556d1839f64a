package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenfold-systems/dmgcore/internal/apu"
	"github.com/tenfold-systems/dmgcore/internal/dma"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/joypad"
	"github.com/tenfold-systems/dmgcore/internal/ppu"
	"github.com/tenfold-systems/dmgcore/internal/serial"
	"github.com/tenfold-systems/dmgcore/internal/timer"
)

func newTestBus() *Bus {
	irq := interrupts.NewController()
	p := ppu.New(irq)
	a := apu.New(44100, nil)
	t := timer.New(irq)
	j := joypad.New(irq)
	s := serial.New(irq)
	return New(irq, p, a, t, j, s)
}

func TestEchoRAMAliasesWorkRAM(t *testing.T) {
	b := newTestBus()
	b.Write(0xC010, 0x5A)
	assert.Equal(t, uint8(0x5A), b.Read(0xE010))

	b.Write(0xE020, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0xC020))
}

func TestProhibitedRangeReadsFFAndDropsWrites(t *testing.T) {
	b := newTestBus()
	b.Write(0xFEA0, 0x42)
	assert.Equal(t, uint8(0xFF), b.Read(0xFEA0))
}

func TestOAMDMALockoutHidesEverythingExceptHRAM(t *testing.T) {
	b := newTestBus()
	b.Write(0xC000, 0x11)
	b.Write(0xFF80, 0x22)

	b.Write(dma.RegDMA, 0x80) // starts a transfer, locks the bus
	assert.True(t, b.DMA.Active())

	assert.Equal(t, uint8(0xFF), b.Read(0xC000), "WRAM is hidden while DMA is active")
	b.Write(0xC000, 0x33)
	assert.Equal(t, uint8(0xFF), b.Read(0xC000), "writes are dropped too")

	assert.Equal(t, uint8(0x22), b.Read(0xFF80), "HRAM stays reachable during DMA")
}

func TestDMATransferCopiesFromWRAMIntoOAM(t *testing.T) {
	b := newTestBus()
	b.WRAM.Write(0x0000, 0xAB) // backing store for 0xC000, used as the DMA source
	b.Write(dma.RegDMA, 0xC0)  // source base 0xC000

	for i := 0; i < 160; i++ {
		b.Tick()
	}
	assert.False(t, b.DMA.Active())
	assert.Equal(t, uint8(0xAB), b.PPU.ReadOAM(0xFE00))
}

func TestNoCartridgeReadsOpenBus(t *testing.T) {
	b := newTestBus()
	assert.Equal(t, uint8(0xFF), b.Read(0x0100))
	assert.Equal(t, uint8(0xFF), b.Read(0xA000))
}
