package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

// wave is the custom-waveform channel (spec.md §4.4): 32 4-bit samples
// played back at a programmable rate through a coarse volume shift.
type wave struct {
	dacEnabled bool
	ram        [16]byte // 32 packed 4-bit samples

	frequency uint16
	timer     int
	position  uint8

	volumeShift uint8 // 0=mute, 1=100%, 2=50%, 3=25%

	lengthCounter uint16 // up to 256
	lengthEnabled bool

	enabled bool
}

func (c *wave) trigger() {
	c.enabled = c.dacEnabled
	if c.lengthCounter == 0 {
		c.lengthCounter = 256
	}
	c.timer = (2048 - int(c.frequency)) * 2
	c.position = 0
}

func (c *wave) tickLength() {
	if !c.lengthEnabled || c.lengthCounter == 0 {
		return
	}
	c.lengthCounter--
	if c.lengthCounter == 0 {
		c.enabled = false
	}
}

func (c *wave) tick() {
	c.timer--
	if c.timer <= 0 {
		c.timer += (2048 - int(c.frequency)) * 2
		c.position = (c.position + 1) % 32
	}
}

func (c *wave) sample() uint8 {
	b := c.ram[c.position/2]
	if c.position%2 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

func (c *wave) amplitude() uint8 {
	if !c.enabled || !c.dacEnabled {
		return 0
	}
	s := c.sample()
	switch c.volumeShift {
	case 0:
		return 0
	case 1:
		return s
	case 2:
		return s >> 1
	case 3:
		return s >> 2
	}
	return 0
}

func (c *wave) save(s *state.State) {
	s.WriteBool(c.dacEnabled)
	s.WriteRaw(c.ram[:])
	s.Write16(c.frequency)
	s.Write32(uint32(c.timer))
	s.Write8(c.position)
	s.Write8(c.volumeShift)
	s.Write16(c.lengthCounter)
	s.WriteBool(c.lengthEnabled)
	s.WriteBool(c.enabled)
}

func (c *wave) load(s *state.State) {
	c.dacEnabled = s.ReadBool()
	s.ReadRaw(c.ram[:])
	c.frequency = s.Read16()
	c.timer = int(int32(s.Read32()))
	c.position = s.Read8()
	c.volumeShift = s.Read8()
	c.lengthCounter = s.Read16()
	c.lengthEnabled = s.ReadBool()
	c.enabled = s.ReadBool()
}
