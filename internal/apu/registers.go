package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

const (
	RegNR10 uint16 = 0xFF10
	RegNR11 uint16 = 0xFF11
	RegNR12 uint16 = 0xFF12
	RegNR13 uint16 = 0xFF13
	RegNR14 uint16 = 0xFF14

	RegNR21 uint16 = 0xFF16
	RegNR22 uint16 = 0xFF17
	RegNR23 uint16 = 0xFF18
	RegNR24 uint16 = 0xFF19

	RegNR30 uint16 = 0xFF1A
	RegNR31 uint16 = 0xFF1B
	RegNR32 uint16 = 0xFF1C
	RegNR33 uint16 = 0xFF1D
	RegNR34 uint16 = 0xFF1E

	RegNR41 uint16 = 0xFF20
	RegNR42 uint16 = 0xFF21
	RegNR43 uint16 = 0xFF22
	RegNR44 uint16 = 0xFF23

	RegNR50 uint16 = 0xFF24
	RegNR51 uint16 = 0xFF25
	RegNR52 uint16 = 0xFF26

	waveRAMStart uint16 = 0xFF30
	waveRAMEnd   uint16 = 0xFF3F
)

func (a *APU) Read(address uint16) uint8 {
	switch address {
	case RegNR10:
		return a.square1.sweepPeriod<<4 | boolBit(a.square1.sweepNegate, 3) | a.square1.sweepShift | 0x80
	case RegNR11:
		return a.square1.duty<<6 | 0x3F
	case RegNR12:
		return envReg(&a.square1.env)
	case RegNR13:
		return 0xFF
	case RegNR14:
		return boolBit(a.square1.lengthEnabled, 6) | 0xBF

	case RegNR21:
		return a.square2.duty<<6 | 0x3F
	case RegNR22:
		return envReg(&a.square2.env)
	case RegNR23:
		return 0xFF
	case RegNR24:
		return boolBit(a.square2.lengthEnabled, 6) | 0xBF

	case RegNR30:
		return boolBit(a.wave.dacEnabled, 7) | 0x7F
	case RegNR31:
		return 0xFF
	case RegNR32:
		return a.wave.volumeShift<<5 | 0x9F
	case RegNR33:
		return 0xFF
	case RegNR34:
		return boolBit(a.wave.lengthEnabled, 6) | 0xBF

	case RegNR41:
		return 0xFF
	case RegNR42:
		return envReg(&a.noise.env)
	case RegNR43:
		return a.noise.clockShift<<4 | boolBit(a.noise.widthMode, 3) | a.noise.divisorCode
	case RegNR44:
		return boolBit(a.noise.lengthEnabled, 6) | 0xBF

	case RegNR50:
		return a.nr50
	case RegNR51:
		return a.nr51
	case RegNR52:
		return a.statusByte()
	}
	if address >= waveRAMStart && address <= waveRAMEnd {
		return a.wave.ram[address-waveRAMStart]
	}
	return 0xFF
}

func envReg(e *envelope) uint8 {
	return e.initialVolume<<4 | boolBit(e.direction, 3) | e.period
}

func boolBit(b bool, shift uint) uint8 {
	if b {
		return 1 << shift
	}
	return 0
}

func (a *APU) statusByte() uint8 {
	v := uint8(0x70)
	if a.powered {
		v |= 0x80
	}
	if a.square1.enabled {
		v |= 0x01
	}
	if a.square2.enabled {
		v |= 0x02
	}
	if a.wave.enabled {
		v |= 0x04
	}
	if a.noise.enabled {
		v |= 0x08
	}
	return v
}

func (a *APU) Write(address uint16, value uint8) {
	if address >= waveRAMStart && address <= waveRAMEnd {
		a.wave.ram[address-waveRAMStart] = value
		return
	}
	if address == RegNR52 {
		wasPowered := a.powered
		a.powered = value&0x80 != 0
		if wasPowered && !a.powered {
			a.powerOff()
		}
		return
	}
	if !a.powered {
		return
	}

	switch address {
	case RegNR10:
		a.square1.sweepPeriod = (value >> 4) & 0x07
		a.square1.sweepNegate = value&0x08 != 0
		a.square1.sweepShift = value & 0x07
	case RegNR11:
		a.square1.duty = (value >> 6) & 0x03
		a.square1.lengthCounter = 64 - (value & 0x3F)
	case RegNR12:
		a.square1.env.initialVolume = value >> 4
		a.square1.env.direction = value&0x08 != 0
		a.square1.env.period = value & 0x07
	case RegNR13:
		a.square1.frequency = a.square1.frequency&0x0700 | uint16(value)
	case RegNR14:
		a.square1.frequency = a.square1.frequency&0x00FF | uint16(value&0x07)<<8
		a.square1.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.square1.trigger()
		}

	case RegNR21:
		a.square2.duty = (value >> 6) & 0x03
		a.square2.lengthCounter = 64 - (value & 0x3F)
	case RegNR22:
		a.square2.env.initialVolume = value >> 4
		a.square2.env.direction = value&0x08 != 0
		a.square2.env.period = value & 0x07
	case RegNR23:
		a.square2.frequency = a.square2.frequency&0x0700 | uint16(value)
	case RegNR24:
		a.square2.frequency = a.square2.frequency&0x00FF | uint16(value&0x07)<<8
		a.square2.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.square2.trigger()
		}

	case RegNR30:
		a.wave.dacEnabled = value&0x80 != 0
	case RegNR31:
		a.wave.lengthCounter = 256 - uint16(value)
	case RegNR32:
		a.wave.volumeShift = (value >> 5) & 0x03
	case RegNR33:
		a.wave.frequency = a.wave.frequency&0x0700 | uint16(value)
	case RegNR34:
		a.wave.frequency = a.wave.frequency&0x00FF | uint16(value&0x07)<<8
		a.wave.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.wave.trigger()
		}

	case RegNR41:
		a.noise.lengthCounter = 64 - (value & 0x3F)
	case RegNR42:
		a.noise.env.initialVolume = value >> 4
		a.noise.env.direction = value&0x08 != 0
		a.noise.env.period = value & 0x07
	case RegNR43:
		a.noise.clockShift = value >> 4
		a.noise.widthMode = value&0x08 != 0
		a.noise.divisorCode = value & 0x07
	case RegNR44:
		a.noise.lengthEnabled = value&0x40 != 0
		if value&0x80 != 0 {
			a.noise.trigger()
		}

	case RegNR50:
		a.nr50 = value
	case RegNR51:
		a.nr51 = value
	}
}

// powerOff clears all channel and mixer registers, per spec.md §4.4:
// writing 0 to NR52's power bit resets the whole unit except wave RAM.
func (a *APU) powerOff() {
	a.square1 = square{hasSweep: true}
	a.square2 = square{hasSweep: false}
	savedRAM := a.wave.ram
	a.wave = wave{ram: savedRAM}
	a.noise = noise{}
	a.nr50, a.nr51 = 0, 0
}

func (a *APU) Save(s *state.State) {
	a.square1.save(s)
	a.square2.save(s)
	a.wave.save(s)
	a.noise.save(s)
	s.Write8(a.nr50)
	s.Write8(a.nr51)
	s.WriteBool(a.powered)
	s.Write8(a.frameSeqStep)
	s.Write32(uint32(a.frameSeqCounter))
	s.Write32(uint32(a.sampleAccum))
	a.hpfL.save(s)
	a.hpfR.save(s)
}

func (a *APU) Load(s *state.State) {
	a.square1.load(s)
	a.square2.load(s)
	a.wave.load(s)
	a.noise.load(s)
	a.nr50 = s.Read8()
	a.nr51 = s.Read8()
	a.powered = s.ReadBool()
	a.frameSeqStep = s.Read8()
	a.frameSeqCounter = int(s.Read32())
	a.sampleAccum = int(s.Read32())
	a.hpfL.load(s)
	a.hpfR.load(s)
}
