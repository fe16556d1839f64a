package cartridge

import "github.com/tenfold-systems/dmgcore/internal/state"

// rtc register indices, as exposed via ram_bank_or_rtc_select 0x08-0x0C.
const (
	rtcSeconds = iota
	rtcMinutes
	rtcHours
	rtcDayLow
	rtcDayHigh // bit0 = day counter bit 8, bit6 = halt, bit7 = day carry
	rtcRegCount
)

const machineCyclesPerSecond = 4194304 / 4

// mbc3 implements the MBC3 memory bank controller of spec.md §4.8: a
// 7-bit ROM bank register with 0->1 correction, a combined RAM-bank/RTC
// register selector, and a latched real-time clock. RTC sub-second
// accuracy is explicitly out of scope (spec.md §1); seconds advance once
// per machine-cycle budget of elapsed time.
type mbc3 struct {
	rom []byte
	ram []byte

	romBankCount int
	ramBankCount int

	enabled bool
	romBank uint8 // 7 bits, 0->1 corrected
	select_ uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register

	rtc        [rtcRegCount]uint8
	latched    [rtcRegCount]uint8
	latchState uint8 // tracks the two-step 0->1 latch sequence
	cycleAccum int
}

func newMBC3(rom []byte, ramSize int) *mbc3 {
	romBanks := len(rom) / 0x4000
	if romBanks == 0 {
		romBanks = 1
	}
	return &mbc3{
		rom:          rom,
		ram:          make([]byte, ramSize),
		romBankCount: romBanks,
		ramBankCount: ramSize / 0x2000,
		romBank:      1,
	}
}

func (m *mbc3) ReadROM(address uint16) uint8 {
	if address < 0x4000 {
		if int(address) < len(m.rom) {
			return m.rom[address]
		}
		return 0xFF
	}
	bank := maskBank(int(m.romBank), m.romBankCount)
	idx := bank*0x4000 + int(address-0x4000)
	if idx >= len(m.rom) {
		return 0xFF
	}
	return m.rom[idx]
}

func (m *mbc3) WriteROM(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.enabled = value&0x0F == 0x0A
	case address < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case address < 0x6000:
		m.select_ = value
	default: // 0x6000-0x7FFF: latch
		if m.latchState == 0 && value == 0x00 {
			m.latchState = 1
		} else if m.latchState == 1 && value == 0x01 {
			m.latched = m.rtc
			m.latchState = 0
		} else {
			m.latchState = 0
		}
	}
}

func (m *mbc3) isRTCSelect() bool { return m.select_ >= 0x08 && m.select_ <= 0x0C }

func (m *mbc3) ReadRAM(address uint16) uint8 {
	if !m.enabled {
		return 0xFF
	}
	if m.isRTCSelect() {
		return m.latched[m.select_-0x08]
	}
	if m.ramBankCount == 0 {
		return 0xFF
	}
	offset := int(m.select_%uint8(m.ramBankCount))*0x2000 + int(address-0xA000)
	if offset >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *mbc3) WriteRAM(address uint16, value uint8) {
	if !m.enabled {
		return
	}
	if m.isRTCSelect() {
		m.rtc[m.select_-0x08] = value
		return
	}
	if m.ramBankCount == 0 {
		return
	}
	offset := int(m.select_%uint8(m.ramBankCount))*0x2000 + int(address-0xA000)
	if offset < len(m.ram) {
		m.ram[offset] = value
	}
}

// TickRTC advances the real-time clock by the given number of machine
// cycles, when it is not halted (rtcDayHigh bit6).
func (m *mbc3) TickRTC(cycles int) {
	if m.rtc[rtcDayHigh]&0x40 != 0 {
		return
	}
	m.cycleAccum += cycles
	for m.cycleAccum >= machineCyclesPerSecond {
		m.cycleAccum -= machineCyclesPerSecond
		m.advanceSecond()
	}
}

func (m *mbc3) advanceSecond() {
	m.rtc[rtcSeconds]++
	if m.rtc[rtcSeconds] < 60 {
		return
	}
	m.rtc[rtcSeconds] = 0
	m.rtc[rtcMinutes]++
	if m.rtc[rtcMinutes] < 60 {
		return
	}
	m.rtc[rtcMinutes] = 0
	m.rtc[rtcHours]++
	if m.rtc[rtcHours] < 24 {
		return
	}
	m.rtc[rtcHours] = 0
	day := uint16(m.rtc[rtcDayLow]) | uint16(m.rtc[rtcDayHigh]&0x01)<<8
	day++
	if day > 0x1FF {
		day = 0
		m.rtc[rtcDayHigh] |= 0x80 // day carry
	}
	m.rtc[rtcDayLow] = uint8(day)
	m.rtc[rtcDayHigh] = m.rtc[rtcDayHigh]&0xFE | uint8(day>>8)
}

func (m *mbc3) RAM() []byte { return m.ram }

var _ state.Stater = (*mbc3)(nil)

func (m *mbc3) Save(s *state.State) {
	s.WriteBytes(m.ram)
	s.WriteBool(m.enabled)
	s.Write8(m.romBank)
	s.Write8(m.select_)
	s.WriteRaw(m.rtc[:])
	s.WriteRaw(m.latched[:])
	s.Write8(m.latchState)
	s.Write32(uint32(m.cycleAccum))
}

func (m *mbc3) Load(s *state.State) {
	copy(m.ram, s.ReadBytes())
	m.enabled = s.ReadBool()
	m.romBank = s.Read8()
	m.select_ = s.Read8()
	s.ReadRaw(m.rtc[:])
	s.ReadRaw(m.latched[:])
	m.latchState = s.Read8()
	m.cycleAccum = int(s.Read32())
}
