// Package ppu implements the Game Boy's Picture Processing Unit: VRAM and
// OAM storage, the four-mode scanline state machine, OAM selection, the
// background/window/object pixel pipeline, and VBlank/STAT interrupts.
//
// The PPU advances in whole dots driven by the CPU's machine-cycle clock;
// per spec.md's Non-goals, timing is accurate to the machine cycle (4
// dots), not below it, so a scanline's Draw-mode pixels are all produced
// the instant Draw begins rather than one dot at a time.
package ppu

import (
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine  = 456
	oamScanDots  = 80
	drawDots     = 172
	linesVisible = 144
	linesTotal   = 154

	maxSelectedSprites = 10
)

// Mode is one of the four PPU modes.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Draw
)

// Registers are the bus-visible addresses the PPU owns.
const (
	RegLCDC uint16 = 0xFF40
	RegSTAT uint16 = 0xFF41
	RegSCY  uint16 = 0xFF42
	RegSCX  uint16 = 0xFF43
	RegLY   uint16 = 0xFF44
	RegLYC  uint16 = 0xFF45
	RegDMA  uint16 = 0xFF46 // handled by the dma package, listed for reference
	RegBGP  uint16 = 0xFF47
	RegOBP0 uint16 = 0xFF48
	RegOBP1 uint16 = 0xFF49
	RegWY   uint16 = 0xFF4A
	RegWX   uint16 = 0xFF4B
)

// spriteEntry is one decoded OAM record, selected for the current line.
type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         uint8
}

// PPU is the Picture Processing Unit of spec.md §4.3.
type PPU struct {
	vram [0x2000]byte
	oam  [160]byte

	// front is the buffer a host reads after FrameReady(); back is what
	// the renderer is currently writing into. Shades are 0-3.
	front, back [ScreenHeight][ScreenWidth]uint8

	dot uint16
	ly  uint8
	mode Mode

	lcdc, stat, scy, scx, lyc, bgp, obp0, obp1, wy, wx uint8

	statLine   bool
	frameReady bool

	selected    [maxSelectedSprites]spriteEntry
	selectedLen int

	irq *interrupts.Controller
}

// New returns a PPU with the documented DMG power-up register values.
func New(irq *interrupts.Controller) *PPU {
	p := &PPU{
		irq:  irq,
		lcdc: 0x91,
		stat: 0x85,
		bgp:  0xFC,
		obp0: 0xFF,
		obp1: 0xFF,
		mode: VBlank,
	}
	p.recomputeStatLine()
	return p
}

func (p *PPU) lcdEnabled() bool { return p.lcdc&0x80 != 0 }

// FrameReady reports, and clears, the "a new frame finished" flag raised
// on VBlank entry.
func (p *PPU) FrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

// Framebuffer returns the front (most recently completed) buffer. It is
// safe to read until the next Tick call that flips buffers.
func (p *PPU) Framebuffer() *[ScreenHeight][ScreenWidth]uint8 { return &p.front }

// Tick advances the PPU by one machine cycle (4 dots). When the LCD is
// disabled, the PPU is frozen: LY=0, dot=0, mode=HBlank.
func (p *PPU) Tick() {
	if !p.lcdEnabled() {
		return
	}
	for i := 0; i < 4; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++
	switch p.mode {
	case OAMScan:
		if p.dot == oamScanDots {
			p.enterDraw()
		}
	case Draw:
		if p.dot == oamScanDots+drawDots {
			p.enterHBlank()
		}
	case HBlank:
		if p.dot == dotsPerLine {
			p.advanceLine()
		}
	case VBlank:
		if p.dot == dotsPerLine {
			p.advanceLineInVBlank()
		}
	}
}

func (p *PPU) advanceLine() {
	p.dot = 0
	p.ly++
	p.checkLYC()
	if p.ly == linesVisible {
		p.enterVBlank()
	} else {
		p.enterOAMScan()
	}
}

func (p *PPU) advanceLineInVBlank() {
	p.dot = 0
	p.ly++
	if p.ly >= linesTotal {
		p.ly = 0
	}
	p.checkLYC()
	if p.ly == 0 {
		p.enterOAMScan()
	} else {
		p.recomputeStatLine()
	}
}

// setMode updates the mode field and mirrors it into STAT's bus-visible
// bits 0-1, since Read(RegSTAT) serves p.stat directly rather than
// computing the mode bits from p.mode on every read.
func (p *PPU) setMode(m Mode) {
	p.mode = m
	p.stat = (p.stat &^ 0x03) | uint8(m)
}

func (p *PPU) enterOAMScan() {
	p.setMode(OAMScan)
	p.scanOAM()
	p.recomputeStatLine()
}

func (p *PPU) enterDraw() {
	p.setMode(Draw)
	p.renderScanline()
	p.recomputeStatLine()
}

func (p *PPU) enterHBlank() {
	p.setMode(HBlank)
	p.recomputeStatLine()
}

func (p *PPU) enterVBlank() {
	p.setMode(VBlank)
	p.front = p.back
	p.frameReady = true
	p.irq.Request(interrupts.VBlank)
	p.recomputeStatLine()
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= 0x04
	} else {
		p.stat &^= 0x04
	}
}

// recomputeStatLine implements the STAT-line edge detector of spec.md
// §4.3: the OR of the four enabled sources, requesting LCD-STAT only on
// a false-to-true transition.
func (p *PPU) recomputeStatLine() {
	line := (p.mode == HBlank && p.stat&0x08 != 0) ||
		(p.mode == VBlank && p.stat&0x10 != 0) ||
		(p.mode == OAMScan && p.stat&0x20 != 0) ||
		(p.stat&0x04 != 0 && p.stat&0x40 != 0)

	if line && !p.statLine {
		p.irq.Request(interrupts.LCDStat)
	}
	p.statLine = line
}

// --- bus-facing memory access, with OAM/VRAM locking ---

func (p *PPU) oamLocked() bool  { return p.mode == OAMScan || p.mode == Draw }
func (p *PPU) vramLocked() bool { return p.mode == Draw }

func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.vramLocked() {
		return 0xFF
	}
	return p.vram[address-0x8000]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.vramLocked() {
		return
	}
	p.vram[address-0x8000] = value
}

func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.oamLocked() {
		return 0xFF
	}
	return p.oam[address-0xFE00]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.oamLocked() {
		return
	}
	p.oam[address-0xFE00] = value
}

// WriteOAMByte implements dma.OAMWriter: the DMA engine writes directly,
// bypassing the OAM lock, because it is itself the hardware path that
// would otherwise be blocked.
func (p *PPU) WriteOAMByte(offset uint8, value uint8) {
	p.oam[offset] = value
}

func (p *PPU) Read(address uint16) uint8 {
	switch address {
	case RegLCDC:
		return p.lcdc
	case RegSTAT:
		return p.stat | 0x80
	case RegSCY:
		return p.scy
	case RegSCX:
		return p.scx
	case RegLY:
		return p.ly
	case RegLYC:
		return p.lyc
	case RegBGP:
		return p.bgp
	case RegOBP0:
		return p.obp0
	case RegOBP1:
		return p.obp1
	case RegWY:
		return p.wy
	case RegWX:
		return p.wx
	}
	return 0xFF
}

func (p *PPU) Write(address uint16, value uint8) {
	switch address {
	case RegLCDC:
		wasEnabled := p.lcdEnabled()
		p.lcdc = value
		if wasEnabled && !p.lcdEnabled() {
			p.ly = 0
			p.dot = 0
			p.setMode(HBlank)
			p.checkLYC()
			p.recomputeStatLine()
		} else if !wasEnabled && p.lcdEnabled() {
			p.ly = 0
			p.dot = 0
			p.enterOAMScan()
		}
	case RegSTAT:
		p.stat = (p.stat & 0x87) | (value & 0x78)
		p.recomputeStatLine()
	case RegSCY:
		p.scy = value
	case RegSCX:
		p.scx = value
	case RegLY:
		// read-only on real hardware
	case RegLYC:
		p.lyc = value
		p.checkLYC()
		p.recomputeStatLine()
	case RegBGP:
		p.bgp = value
	case RegOBP0:
		p.obp0 = value
	case RegOBP1:
		p.obp1 = value
	case RegWY:
		p.wy = value
	case RegWX:
		p.wx = value
	}
}

var _ state.Stater = (*PPU)(nil)

func (p *PPU) Save(s *state.State) {
	s.WriteRaw(p.vram[:])
	s.WriteRaw(p.oam[:])
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			s.Write8(p.front[y][x])
			s.Write8(p.back[y][x])
		}
	}
	s.Write16(p.dot)
	s.Write8(p.ly)
	s.Write8(uint8(p.mode))
	s.Write8(p.lcdc)
	s.Write8(p.stat)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.lyc)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.WriteBool(p.statLine)
}

func (p *PPU) Load(s *state.State) {
	s.ReadRaw(p.vram[:])
	s.ReadRaw(p.oam[:])
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			p.front[y][x] = s.Read8()
			p.back[y][x] = s.Read8()
		}
	}
	p.dot = s.Read16()
	p.ly = s.Read8()
	p.mode = Mode(s.Read8())
	p.lcdc = s.Read8()
	p.stat = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.lyc = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.statLine = s.ReadBool()
}
