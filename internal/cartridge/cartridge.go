package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/tenfold-systems/dmgcore/internal/coreerr"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

// minHeaderLength is the smallest ROM image that can contain a header.
const minHeaderLength = 0x150

// Cartridge owns the ROM image, the header parsed from it, and the
// MBC-specific state that banks it. ROM is immutable and never part of
// save-state; only MBC registers and external RAM are (spec.md §6).
type Cartridge struct {
	header Header
	mbc    MemoryBankController
	rom    []byte
	hash   uint64
}

// New parses rom's header and constructs the matching MBC. It returns
// coreerr.ErrCartridgeTooSmall, coreerr.ErrBadHeaderChecksum, or
// coreerr.ErrUnsupportedCartridgeType on failure.
func New(rom []byte) (*Cartridge, error) {
	if len(rom) < minHeaderLength {
		return nil, coreerr.ErrCartridgeTooSmall
	}
	header := ParseHeader(rom)
	if !header.ChecksumValid {
		return nil, fmt.Errorf("%w: got 0x%02X", coreerr.ErrBadHeaderChecksum, header.HeaderChecksum)
	}

	var mbc MemoryBankController
	switch header.CartridgeType {
	case TypeROM:
		mbc = newMBCNone(rom, header.RAMSize)
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		mbc = newMBC1(rom, header.RAMSize)
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		mbc = newMBC3(rom, header.RAMSize)
	default:
		return nil, fmt.Errorf("%w: %s", coreerr.ErrUnsupportedCartridgeType, header.CartridgeType)
	}

	return &Cartridge{
		header: header,
		mbc:    mbc,
		rom:    rom,
		hash:   xxhash.Sum64(rom),
	}, nil
}

func (c *Cartridge) Header() *Header { return &c.header }

// Hash returns an xxhash fingerprint of the ROM image, used to identify
// a cartridge independent of (and faster than) re-parsing its header.
func (c *Cartridge) Hash() uint64 { return c.hash }

// IdentitySlice returns the save-state identity check slice (spec.md §6).
func (c *Cartridge) IdentitySlice() []byte { return IdentitySlice(c.rom) }

// Read dispatches a bus read to ROM (0x0000-0x7FFF) or external RAM
// (0xA000-0xBFFF).
func (c *Cartridge) Read(address uint16) uint8 {
	if address <= 0x7FFF {
		return c.mbc.ReadROM(address)
	}
	return c.mbc.ReadRAM(address)
}

// Write dispatches a bus write the same way Read does.
func (c *Cartridge) Write(address uint16, value uint8) {
	if address <= 0x7FFF {
		c.mbc.WriteROM(address, value)
		return
	}
	c.mbc.WriteRAM(address, value)
}

// TickRTC advances an MBC3 real-time clock, if present; a no-op for
// other MBC variants.
func (c *Cartridge) TickRTC(cycles int) {
	if m3, ok := c.mbc.(*mbc3); ok {
		m3.TickRTC(cycles)
	}
}

// RAM returns the external RAM backing store, for battery-save
// persistence outside the save-state format.
func (c *Cartridge) RAM() []byte { return c.mbc.RAM() }

// LoadRAM replaces the external RAM contents, e.g. from a battery save
// file loaded alongside the ROM.
func (c *Cartridge) LoadRAM(data []byte) {
	copy(c.mbc.RAM(), data)
}

var _ state.Stater = (*Cartridge)(nil)

func (c *Cartridge) Save(s *state.State) { c.mbc.Save(s) }
func (c *Cartridge) Load(s *state.State) { c.mbc.Load(s) }
