// Package timer implements the Game Boy's programmable interval timer:
// DIV/TIMA/TMA/TAC and the Timer interrupt, including the hardware's
// falling-edge TIMA-increment behavior and delayed overflow reload.
package timer

import (
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

const (
	RegDIV  uint16 = 0xFF04
	RegTIMA uint16 = 0xFF05
	RegTMA  uint16 = 0xFF06
	RegTAC  uint16 = 0xFF07
)

// selectedBit maps TAC's 2-bit clock-select field to the bit of the
// internal 16-bit DIV counter whose falling edge clocks TIMA.
var selectedBit = [4]uint{9, 3, 5, 7}

// Controller is the Timer component of spec.md §4.5.
type Controller struct {
	div  uint16 // internal 16-bit counter; DIV is its top 8 bits
	tima uint8
	tma  uint8
	tac  uint8 // bit 2 = enable, bits 0-1 = clock select

	prevBit bool // value of the selected DIV bit on the previous tick

	overflowPending bool // TIMA wrapped to 0 this tick; reload happens next tick

	irq *interrupts.Controller
}

// New returns a Controller with power-up register values (TIMA=TMA=0x00,
// TAC=0xF8, DIV's visible high byte observed as 0xAB).
func New(irq *interrupts.Controller) *Controller {
	return &Controller{
		div: 0xAB00,
		tac: 0xF8,
		irq: irq,
	}
}

func (c *Controller) enabled() bool { return c.tac&0x04 != 0 }
func (c *Controller) clockBit() uint { return selectedBit[c.tac&0x03] }

func (c *Controller) selectedBitValue() bool {
	return c.div&(1<<c.clockBit()) != 0
}

// Tick advances the timer by one machine cycle (4 internal clocks).
func (c *Controller) Tick() {
	// finish a reload scheduled on the previous tick
	if c.overflowPending {
		c.overflowPending = false
		c.tima = c.tma
		c.irq.Request(interrupts.Timer)
	}

	c.div += 4
	c.checkEdge()
}

func (c *Controller) checkEdge() {
	newBit := c.selectedBitValue()
	if c.prevBit && !newBit && c.enabled() {
		c.incrementTIMA()
	}
	c.prevBit = newBit
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.overflowPending = true
	}
}

// Read implements the bus-visible DIV/TIMA/TMA/TAC registers.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case RegDIV:
		return uint8(c.div >> 8)
	case RegTIMA:
		if c.overflowPending {
			return 0x00
		}
		return c.tima
	case RegTMA:
		return c.tma
	case RegTAC:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write implements the bus-visible DIV/TIMA/TMA/TAC registers.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case RegDIV:
		c.div = 0
		c.checkEdge()
	case RegTIMA:
		// a write during the reload cycle is overridden by the TMA reload
		if !c.overflowPending {
			c.tima = value
		}
	case RegTMA:
		c.tma = value
	case RegTAC:
		c.tac = value & 0x07
	}
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.WriteBool(c.prevBit)
	s.WriteBool(c.overflowPending)
}

func (c *Controller) Load(s *state.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.prevBit = s.ReadBool()
	c.overflowPending = s.ReadBool()
}
