package cartridge

import "github.com/tenfold-systems/dmgcore/internal/state"

// mbcNone is the ROM-only cartridge: a fixed 32KiB ROM, writes to ROM
// space ignored, and (optionally) a small fixed RAM window with no
// banking register at all.
type mbcNone struct {
	rom []byte
	ram []byte
}

func newMBCNone(rom []byte, ramSize int) *mbcNone {
	return &mbcNone{rom: rom, ram: make([]byte, ramSize)}
}

func (m *mbcNone) ReadROM(address uint16) uint8 {
	if int(address) < len(m.rom) {
		return m.rom[address]
	}
	return 0xFF
}

func (m *mbcNone) WriteROM(uint16, uint8) {}

func (m *mbcNone) ReadRAM(address uint16) uint8 {
	offset := address - 0xA000
	if int(offset) < len(m.ram) {
		return m.ram[offset]
	}
	return 0xFF
}

func (m *mbcNone) WriteRAM(address uint16, value uint8) {
	offset := address - 0xA000
	if int(offset) < len(m.ram) {
		m.ram[offset] = value
	}
}

func (m *mbcNone) RAM() []byte { return m.ram }

var _ state.Stater = (*mbcNone)(nil)

func (m *mbcNone) Save(s *state.State) { s.WriteBytes(m.ram) }
func (m *mbcNone) Load(s *state.State) { copy(m.ram, s.ReadBytes()) }
