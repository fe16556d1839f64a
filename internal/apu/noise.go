package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

// divisorTable maps a 3-bit divisor code to its base divisor.
var divisorTable = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

// noise is the pseudo-random noise channel: a 15-bit LFSR clocked at a
// programmable rate (spec.md §4.4).
type noise struct {
	clockShift  uint8
	widthMode   bool // true = 7-bit LFSR
	divisorCode uint8

	lfsr  uint16
	timer int

	lengthCounter uint8
	lengthEnabled bool

	env envelope

	enabled bool
}

func (c *noise) dacEnabled() bool { return c.env.dacEnabled() }

func (c *noise) period() int {
	return divisorTable[c.divisorCode] << c.clockShift
}

func (c *noise) trigger() {
	c.enabled = c.dacEnabled()
	if c.lengthCounter == 0 {
		c.lengthCounter = 64
	}
	c.timer = c.period()
	c.lfsr = 0x7FFF
	c.env.trigger()
}

func (c *noise) tickLength() {
	if !c.lengthEnabled || c.lengthCounter == 0 {
		return
	}
	c.lengthCounter--
	if c.lengthCounter == 0 {
		c.enabled = false
	}
}

func (c *noise) tick() {
	c.timer--
	if c.timer <= 0 {
		c.timer += c.period()
		bit := (c.lfsr ^ (c.lfsr >> 1)) & 1
		c.lfsr = (c.lfsr >> 1) | (bit << 14)
		if c.widthMode {
			c.lfsr = c.lfsr&^(1<<6) | (bit << 6)
		}
	}
}

func (c *noise) amplitude() uint8 {
	if !c.enabled || !c.dacEnabled() {
		return 0
	}
	if c.lfsr&1 != 0 {
		return 0
	}
	return c.env.volume
}

func (c *noise) save(s *state.State) {
	s.Write8(c.clockShift)
	s.WriteBool(c.widthMode)
	s.Write8(c.divisorCode)
	s.Write16(c.lfsr)
	s.Write32(uint32(c.timer))
	s.Write8(c.lengthCounter)
	s.WriteBool(c.lengthEnabled)
	c.env.save(s)
	s.WriteBool(c.enabled)
}

func (c *noise) load(s *state.State) {
	c.clockShift = s.Read8()
	c.widthMode = s.ReadBool()
	c.divisorCode = s.Read8()
	c.lfsr = s.Read16()
	c.timer = int(int32(s.Read32()))
	c.lengthCounter = s.Read8()
	c.lengthEnabled = s.ReadBool()
	c.env.load(s)
	c.enabled = s.ReadBool()
}
