package cartridge

import "github.com/tenfold-systems/dmgcore/internal/state"

// mbc1 implements the MBC1 memory bank controller of spec.md §4.8: a
// 5-bit low ROM bank register with 0->1 correction, a 2-bit high register
// shared between the ROM bank's upper bits and the RAM bank number
// depending on mode, and a RAM-enable latch.
type mbc1 struct {
	rom []byte
	ram []byte

	romBankCount int
	ramBankCount int

	ramEnabled bool
	bankLow    uint8 // 5 bits, 0->1 corrected
	bankHigh   uint8 // 2 bits
	mode       bool  // false = mode 0, true = mode 1
}

func newMBC1(rom []byte, ramSize int) *mbc1 {
	romBanks := len(rom) / 0x4000
	if romBanks == 0 {
		romBanks = 1
	}
	ramBanks := ramSize / 0x2000
	return &mbc1{
		rom:          rom,
		ram:          make([]byte, ramSize),
		romBankCount: romBanks,
		ramBankCount: ramBanks,
		bankLow:      1,
	}
}

func (m *mbc1) effectiveROMBankUpper() int {
	return maskBank(int(m.bankHigh)<<5|int(m.bankLow), m.romBankCount)
}

func (m *mbc1) effectiveROMBankLower() int {
	if !m.mode {
		return 0
	}
	return maskBank(int(m.bankHigh)<<5, m.romBankCount)
}

func (m *mbc1) effectiveRAMBank() int {
	if !m.mode {
		return 0
	}
	if m.ramBankCount == 0 {
		return 0
	}
	return int(m.bankHigh) % m.ramBankCount
}

func (m *mbc1) ReadROM(address uint16) uint8 {
	if address < 0x4000 {
		bank := m.effectiveROMBankLower()
		return m.romByte(bank, address)
	}
	bank := m.effectiveROMBankUpper()
	return m.romByte(bank, address-0x4000)
}

func (m *mbc1) romByte(bank int, offset uint16) uint8 {
	idx := bank*0x4000 + int(offset)
	if idx < 0 || idx >= len(m.rom) {
		return 0xFF
	}
	return m.rom[idx]
}

func (m *mbc1) WriteROM(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		v := value & 0x1F
		if v == 0 {
			v = 1
		}
		m.bankLow = v
	case address < 0x6000:
		m.bankHigh = value & 0x03
	default: // 0x6000-0x7FFF
		m.mode = value&0x01 != 0
	}
}

func (m *mbc1) ReadRAM(address uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	offset := m.effectiveRAMBank()*0x2000 + int(address-0xA000)
	if offset >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *mbc1) WriteRAM(address uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	offset := m.effectiveRAMBank()*0x2000 + int(address-0xA000)
	if offset < len(m.ram) {
		m.ram[offset] = value
	}
}

func (m *mbc1) RAM() []byte { return m.ram }

var _ state.Stater = (*mbc1)(nil)

func (m *mbc1) Save(s *state.State) {
	s.WriteBytes(m.ram)
	s.WriteBool(m.ramEnabled)
	s.Write8(m.bankLow)
	s.Write8(m.bankHigh)
	s.WriteBool(m.mode)
}

func (m *mbc1) Load(s *state.State) {
	copy(m.ram, s.ReadBytes())
	m.ramEnabled = s.ReadBool()
	m.bankLow = s.Read8()
	m.bankHigh = s.Read8()
	m.mode = s.ReadBool()
}
