// Package interrupts implements the interrupt controller: the IF/IE
// register pair, the IME flag, and priority arbitration between the five
// interrupt sources.
package interrupts

import "github.com/tenfold-systems/dmgcore/internal/state"

// Source identifies one of the five interrupt lines, in priority order
// (lowest value wins when more than one is pending).
type Source uint8

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector is the fixed dispatch address for each Source.
var Vector = [5]uint16{
	VBlank:  0x0040,
	LCDStat: 0x0048,
	Timer:   0x0050,
	Serial:  0x0058,
	Joypad:  0x0060,
}

const (
	RegIF uint16 = 0xFF0F
	RegIE uint16 = 0xFFFF
)

// Controller holds IF, IE and IME. Only the low 5 bits of IF/IE are
// meaningful; the unused bits of IF always read back as 1.
type Controller struct {
	flag   uint8 // IF, low 5 bits meaningful
	enable uint8 // IE, low 5 bits meaningful

	IME          bool
	imeScheduled bool // EI sets this; it promotes to IME after the next instruction
}

// NewController returns a Controller with its documented power-up values:
// IF=0xE1, IE=0x00, IME=false.
func NewController() *Controller {
	return &Controller{flag: 0x01, enable: 0x00}
}

// Request sets the IF bit for the given source.
func (c *Controller) Request(src Source) {
	c.flag |= 1 << uint8(src)
}

// Clear clears the IF bit for the given source.
func (c *Controller) Clear(src Source) {
	c.flag &^= 1 << uint8(src)
}

// Pending returns true if any enabled interrupt is flagged, regardless of
// IME. HALT/STOP wake on this condition even with IME cleared.
func (c *Controller) Pending() bool {
	return c.flag&c.enable&0x1F != 0
}

// NextSource returns the lowest-numbered pending-and-enabled source and
// true, or (0, false) if none is pending.
func (c *Controller) NextSource() (Source, bool) {
	masked := c.flag & c.enable & 0x1F
	if masked == 0 {
		return 0, false
	}
	for s := VBlank; s <= Joypad; s++ {
		if masked&(1<<uint8(s)) != 0 {
			return s, true
		}
	}
	return 0, false
}

// ScheduleEnable arms the "IME-pending" latch set by the EI instruction.
// It must be promoted exactly one instruction boundary later via
// Tick.
func (c *Controller) ScheduleEnable() {
	c.imeScheduled = true
}

// DisableImmediately implements DI: IME is cleared with no delay.
func (c *Controller) DisableImmediately() {
	c.IME = false
	c.imeScheduled = false
}

// Tick promotes a pending EI latch to IME=true. It must be called once
// per instruction boundary, after the instruction that followed EI has
// completed.
func (c *Controller) Tick() {
	if c.imeScheduled {
		c.IME = true
		c.imeScheduled = false
	}
}

// Read implements the bus-visible IF/IE registers. IF's unused bits read
// high; IE reads back all eight bits as written.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case RegIF:
		return c.flag&0x1F | 0xE0
	case RegIE:
		return c.enable & 0xFF
	}
	return 0xFF
}

// Write implements the bus-visible IF/IE registers.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case RegIF:
		c.flag = value & 0x1F
	case RegIE:
		c.enable = value
	}
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write8(c.flag)
	s.Write8(c.enable)
	s.WriteBool(c.IME)
	s.WriteBool(c.imeScheduled)
}

func (c *Controller) Load(s *state.State) {
	c.flag = s.Read8()
	c.enable = s.Read8()
	c.IME = s.ReadBool()
	c.imeScheduled = s.ReadBool()
}
