package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

// dutyTable gives, for each of the 4 duty patterns, whether each of the
// 8 steps is high.
var dutyTable = [4][8]bool{
	{false, false, false, false, false, false, false, true},  // 12.5%
	{true, false, false, false, false, false, false, true},   // 25%
	{true, false, false, false, false, true, true, true},     // 50%
	{false, true, true, true, true, true, true, false},       // 75%
}

// square is a pulse channel (square 1 has a sweep unit, square 2 does not).
type square struct {
	hasSweep bool

	duty     uint8
	dutyStep uint8

	frequency uint16
	timer     int

	lengthCounter uint8
	lengthEnabled bool

	env envelope

	// sweep unit (square 1 only)
	sweepPeriod    uint8
	sweepNegate    bool
	sweepShift     uint8
	sweepTimer     uint8
	sweepEnabled   bool
	shadowFreq     uint16

	enabled bool
}

func (c *square) dacEnabled() bool { return c.env.dacEnabled() }

func (c *square) trigger() {
	c.enabled = c.dacEnabled()
	if c.lengthCounter == 0 {
		c.lengthCounter = 64
	}
	c.timer = (2048 - int(c.frequency)) * 4
	c.env.trigger()

	if c.hasSweep {
		c.shadowFreq = c.frequency
		c.sweepTimer = c.sweepPeriod
		if c.sweepTimer == 0 {
			c.sweepTimer = 8
		}
		c.sweepEnabled = c.sweepPeriod != 0 || c.sweepShift != 0
		if c.sweepShift != 0 && c.sweepOverflows(c.computeSweep()) {
			c.enabled = false
		}
	}
}

func (c *square) computeSweep() uint16 {
	delta := c.shadowFreq >> c.sweepShift
	if c.sweepNegate {
		return c.shadowFreq - delta
	}
	return c.shadowFreq + delta
}

func (c *square) sweepOverflows(f uint16) bool { return f > 2047 }

// tickSweep runs at frame-sequencer steps 2 and 6 (128 Hz), square 1 only.
func (c *square) tickSweep() {
	if !c.hasSweep || !c.sweepEnabled {
		return
	}
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	c.sweepTimer = c.sweepPeriod
	if c.sweepTimer == 0 {
		c.sweepTimer = 8
	}
	if c.sweepPeriod == 0 {
		return
	}
	newFreq := c.computeSweep()
	if c.sweepOverflows(newFreq) {
		c.enabled = false
		return
	}
	if c.sweepShift != 0 {
		c.shadowFreq = newFreq
		c.frequency = newFreq
		if c.sweepOverflows(c.computeSweep()) {
			c.enabled = false
		}
	}
}

// tickLength runs at frame-sequencer steps 0, 2, 4, 6 (256 Hz).
func (c *square) tickLength() {
	if !c.lengthEnabled || c.lengthCounter == 0 {
		return
	}
	c.lengthCounter--
	if c.lengthCounter == 0 {
		c.enabled = false
	}
}

// tick advances the frequency timer by one T-cycle.
func (c *square) tick() {
	c.timer--
	if c.timer <= 0 {
		c.timer += (2048 - int(c.frequency)) * 4
		c.dutyStep = (c.dutyStep + 1) % 8
	}
}

func (c *square) amplitude() uint8 {
	if !c.enabled || !c.dacEnabled() {
		return 0
	}
	if !dutyTable[c.duty][c.dutyStep] {
		return 0
	}
	return c.env.volume
}

func (c *square) save(s *state.State) {
	s.Write8(c.duty)
	s.Write8(c.dutyStep)
	s.Write16(c.frequency)
	s.Write32(uint32(c.timer))
	s.Write8(c.lengthCounter)
	s.WriteBool(c.lengthEnabled)
	c.env.save(s)
	s.Write8(c.sweepPeriod)
	s.WriteBool(c.sweepNegate)
	s.Write8(c.sweepShift)
	s.Write8(c.sweepTimer)
	s.WriteBool(c.sweepEnabled)
	s.Write16(c.shadowFreq)
	s.WriteBool(c.enabled)
}

func (c *square) load(s *state.State) {
	c.duty = s.Read8()
	c.dutyStep = s.Read8()
	c.frequency = s.Read16()
	c.timer = int(int32(s.Read32()))
	c.lengthCounter = s.Read8()
	c.lengthEnabled = s.ReadBool()
	c.env.load(s)
	c.sweepPeriod = s.Read8()
	c.sweepNegate = s.ReadBool()
	c.sweepShift = s.Read8()
	c.sweepTimer = s.Read8()
	c.sweepEnabled = s.ReadBool()
	c.shadowFreq = s.Read16()
	c.enabled = s.ReadBool()
}
