// Package bus implements the Game Boy's memory-mapped address decoder: a
// pure, synchronous dispatch from a 16-bit address to the owning
// component, including echo-RAM aliasing, the prohibited 0xFEA0-0xFEFF
// range, and the OAM/VRAM and OAM-DMA bus-lock rules of spec.md §3/§4.2.
package bus

import (
	"github.com/tenfold-systems/dmgcore/internal/apu"
	"github.com/tenfold-systems/dmgcore/internal/cartridge"
	"github.com/tenfold-systems/dmgcore/internal/dma"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/joypad"
	"github.com/tenfold-systems/dmgcore/internal/ppu"
	"github.com/tenfold-systems/dmgcore/internal/ram"
	"github.com/tenfold-systems/dmgcore/internal/serial"
	"github.com/tenfold-systems/dmgcore/internal/state"
	"github.com/tenfold-systems/dmgcore/internal/timer"
)

// WRAMSize and HRAMSize are the DMG's fixed internal RAM sizes.
const (
	WRAMSize = 8 * 1024
	HRAMSize = 127
)

// Bus wires every addressable component together.
type Bus struct {
	Cart    *cartridge.Cartridge
	WRAM    *ram.RAM
	HRAM    *ram.RAM
	PPU     *ppu.PPU
	APU     *apu.APU
	Timer   *timer.Controller
	Joypad  *joypad.Controller
	Serial  *serial.Controller
	IRQ     *interrupts.Controller
	DMA     *dma.Engine
}

// New wires a Bus from its already-constructed components. Cart may be
// nil (no cartridge inserted); reads return 0xFF and writes are dropped.
func New(irq *interrupts.Controller, p *ppu.PPU, a *apu.APU, t *timer.Controller, j *joypad.Controller, s *serial.Controller) *Bus {
	b := &Bus{
		WRAM:   ram.New(WRAMSize),
		HRAM:   ram.New(HRAMSize),
		PPU:    p,
		APU:    a,
		Timer:  t,
		Joypad: j,
		Serial: s,
		IRQ:    irq,
	}
	b.DMA = dma.New(b, b.PPU)
	return b
}

// Tick advances every peripheral by one machine cycle, including the
// cartridge's RTC (MBC3) and the OAM DMA engine.
func (b *Bus) Tick() {
	b.Timer.Tick()
	b.Serial.Tick()
	b.PPU.Tick()
	b.APU.Tick()
	b.DMA.Tick()
	if b.Cart != nil {
		b.Cart.TickRTC(1)
	}
}

func (b *Bus) Read(address uint16) uint8 {
	if b.DMA.Active() && address < 0xFF80 {
		return 0xFF
	}
	return b.dispatch(address)
}

func (b *Bus) Write(address uint16, value uint8) {
	if b.DMA.Active() && address < 0xFF80 {
		return
	}
	b.dispatchWrite(address, value)
}

// ReadForDMA implements dma.SourceReader: the DMA engine's own bus access
// is the hardware path the CPU-facing lock exists to protect, so it
// bypasses the DMA-active lock. It uses the same dispatch as Read, so the
// PPU's OAM/VRAM locks still apply to a DMA source in those regions.
func (b *Bus) ReadForDMA(address uint16) uint8 {
	return b.dispatch(address)
}

func (b *Bus) dispatch(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		if b.Cart == nil {
			return 0xFF
		}
		return b.Cart.Read(address)
	case address <= 0x9FFF:
		return b.PPU.ReadVRAM(address)
	case address <= 0xBFFF:
		if b.Cart == nil {
			return 0xFF
		}
		return b.Cart.Read(address)
	case address <= 0xDFFF:
		return b.WRAM.Read(address - 0xC000)
	case address <= 0xFDFF:
		return b.WRAM.Read(address - 0xE000)
	case address <= 0xFE9F:
		return b.PPU.ReadOAM(address)
	case address <= 0xFEFF:
		return 0xFF
	case address == 0xFF00:
		return b.Joypad.Read(address)
	case address == 0xFF01 || address == 0xFF02:
		return b.Serial.Read(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return b.Timer.Read(address)
	case address == 0xFF0F:
		return b.IRQ.Read(address)
	case address >= 0xFF10 && address <= 0xFF26:
		return b.APU.Read(address)
	case address >= 0xFF30 && address <= 0xFF3F:
		return b.APU.Read(address)
	case address >= 0xFF40 && address <= 0xFF4B:
		if address == dma.RegDMA {
			return b.DMA.Read(address)
		}
		return b.PPU.Read(address)
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.HRAM.Read(address - 0xFF80)
	case address == 0xFFFF:
		return b.IRQ.Read(address)
	}
	return 0xFF
}

func (b *Bus) dispatchWrite(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		if b.Cart != nil {
			b.Cart.Write(address, value)
		}
	case address <= 0x9FFF:
		b.PPU.WriteVRAM(address, value)
	case address <= 0xBFFF:
		if b.Cart != nil {
			b.Cart.Write(address, value)
		}
	case address <= 0xDFFF:
		b.WRAM.Write(address-0xC000, value)
	case address <= 0xFDFF:
		b.WRAM.Write(address-0xE000, value)
	case address <= 0xFE9F:
		b.PPU.WriteOAM(address, value)
	case address <= 0xFEFF:
		// prohibited, writes dropped
	case address == 0xFF00:
		b.Joypad.Write(address, value)
	case address == 0xFF01 || address == 0xFF02:
		b.Serial.Write(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		b.Timer.Write(address, value)
	case address == 0xFF0F:
		b.IRQ.Write(address, value)
	case address >= 0xFF10 && address <= 0xFF26:
		b.APU.Write(address, value)
	case address >= 0xFF30 && address <= 0xFF3F:
		b.APU.Write(address, value)
	case address >= 0xFF40 && address <= 0xFF4B:
		if address == dma.RegDMA {
			b.DMA.Write(address, value)
		} else {
			b.PPU.Write(address, value)
		}
	case address >= 0xFF80 && address <= 0xFFFE:
		b.HRAM.Write(address-0xFF80, value)
	case address == 0xFFFF:
		b.IRQ.Write(address, value)
	}
}

var _ state.Stater = (*Bus)(nil)

// Save/Load cover the Bus's own WRAM/HRAM and its DMA engine; every other component
// saves itself directly under Machine's control (spec.md §6 save-state
// ordering).
func (b *Bus) Save(s *state.State) {
	b.WRAM.Save(s)
	b.HRAM.Save(s)
	b.DMA.Save(s)
}

func (b *Bus) Load(s *state.State) {
	b.WRAM.Load(s)
	b.HRAM.Load(s)
	b.DMA.Load(s)
}
