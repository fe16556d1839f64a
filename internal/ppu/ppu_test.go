package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
)

func TestModeSequencePerLine(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.Write(RegLY, 0) // no-op, LY is read-only

	assert.Equal(t, VBlank, p.mode, "post-power-up STAT snapshot reports mode 1")

	p.mode = OAMScan
	p.dot = 0
	for i := 0; i < 20; i++ { // 20 machine cycles = 80 dots
		p.Tick()
	}
	assert.Equal(t, Draw, p.mode)

	for i := 0; i < 43; i++ { // 172 dots = 43 machine cycles
		p.Tick()
	}
	assert.Equal(t, HBlank, p.mode)
}

func TestFrameRaisesVBlankOncePerFrame(t *testing.T) {
	irq := interrupts.NewController()
	irq.Write(interrupts.RegIE, 0xFF)
	p := New(irq)
	p.mode = OAMScan
	p.ly = 0
	p.dot = 0

	vblankCount := 0
	const cyclesPerFrame = 70224 / 4
	for i := 0; i < cyclesPerFrame; i++ {
		p.Tick()
		if p.FrameReady() {
			vblankCount++
		}
	}
	assert.Equal(t, 1, vblankCount)
	assert.True(t, irq.Pending())
}

func TestSTATRegisterReflectsCurrentMode(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	assert.Equal(t, uint8(VBlank), p.Read(RegSTAT)&0x03, "post-power-up STAT mode bits report mode 1")

	p.enterOAMScan()
	assert.Equal(t, uint8(OAMScan), p.Read(RegSTAT)&0x03)

	p.enterDraw()
	assert.Equal(t, uint8(Draw), p.Read(RegSTAT)&0x03)

	p.enterHBlank()
	assert.Equal(t, uint8(HBlank), p.Read(RegSTAT)&0x03)

	p.enterVBlank()
	assert.Equal(t, uint8(VBlank), p.Read(RegSTAT)&0x03)
}

func TestSTATRegisterTracksModeAcrossTicks(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.setMode(OAMScan)
	p.dot = 0

	for i := 0; i < 20; i++ { // 20 machine cycles = 80 dots
		p.Tick()
	}
	assert.Equal(t, uint8(Draw), p.Read(RegSTAT)&0x03)

	for i := 0; i < 43; i++ { // 172 dots = 43 machine cycles
		p.Tick()
	}
	assert.Equal(t, uint8(HBlank), p.Read(RegSTAT)&0x03)
}

func TestOAMLockedDuringOAMScanAndDraw(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.mode = OAMScan
	assert.Equal(t, uint8(0xFF), p.ReadOAM(0xFE00))

	p.mode = HBlank
	p.WriteOAM(0xFE00, 0x42)
	assert.Equal(t, uint8(0x42), p.ReadOAM(0xFE00))
}

func TestVRAMLockedDuringDrawOnly(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.mode = OAMScan
	p.WriteVRAM(0x8000, 0x11)
	assert.Equal(t, uint8(0x11), p.ReadVRAM(0x8000), "VRAM is only locked during Draw")

	p.mode = Draw
	assert.Equal(t, uint8(0xFF), p.ReadVRAM(0x8000))
}

func TestLCDCDisableFreezesPPU(t *testing.T) {
	irq := interrupts.NewController()
	p := New(irq)
	p.mode = OAMScan
	p.ly = 5
	p.dot = 10

	p.Write(RegLCDC, p.lcdc&^0x80)
	assert.Equal(t, uint8(0), p.ly)
	assert.Equal(t, HBlank, p.mode)

	before := p.ly
	p.Tick()
	assert.Equal(t, before, p.ly, "a disabled LCD does not advance")
}
