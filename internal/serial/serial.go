// Package serial emulates the Game Boy's serial port: an 8-bit shift
// register clocked either internally or by an external source, raising
// the Serial interrupt when a full byte has been exchanged.
//
// No link-cable device is emulated (spec.md Non-goals); with nothing
// attached, the incoming bit is always 1 (0xFF shifted in), matching an
// unplugged cable.
package serial

import (
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

const (
	RegSB uint16 = 0xFF01
	RegSC uint16 = 0xFF02
)

// internalClockPeriod is the number of machine cycles between shifted
// bits when SC selects the internal clock (8192 Hz at 4.194304 MHz, i.e.
// every 512 T-cycles == 128 machine cycles).
const internalClockPeriod = 128

// DataCallback is invoked when a transfer completes, with the contents of
// SB at that point: the byte shifted in, which is 0xFF with no device
// attached. The byte that was shifted out is not passed.
type DataCallback func(b uint8)

// Controller is the Serial component of spec.md §3/§4.
type Controller struct {
	data    uint8
	control uint8 // bit7 = transfer start, bit0 = clock select (1=internal)

	transferring bool
	bitsLeft     uint8
	counter      uint16

	irq      *interrupts.Controller
	onByte   DataCallback
}

// New returns a Controller with its power-up register values.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{control: 0x7E, irq: irq}
}

// SetDataCallback installs the optional host callback invoked once per
// completed byte transfer.
func (c *Controller) SetDataCallback(cb DataCallback) { c.onByte = cb }

func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case RegSB:
		return c.data
	case RegSC:
		return c.control | 0x7E
	}
	return 0xFF
}

func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case RegSB:
		c.data = value
	case RegSC:
		c.control = value | 0x7E
		if value&0x81 == 0x81 && !c.transferring {
			c.transferring = true
			c.bitsLeft = 8
			c.counter = internalClockPeriod
		}
	}
}

// Tick advances the serial clock by one machine cycle. Only the internal
// clock is modeled; without link hardware, an externally-clocked
// transfer never completes (accurate to an unplugged cable).
func (c *Controller) Tick() {
	if !c.transferring || c.control&0x01 == 0 {
		return
	}
	c.counter--
	if c.counter != 0 {
		return
	}
	c.counter = internalClockPeriod

	// shift in 1 (no device attached), shift out the MSB
	c.data = c.data<<1 | 1
	c.bitsLeft--
	if c.bitsLeft == 0 {
		c.transferring = false
		c.control &^= 0x80
		c.irq.Request(interrupts.Serial)
		if c.onByte != nil {
			c.onByte(c.data)
		}
	}
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write8(c.data)
	s.Write8(c.control)
	s.WriteBool(c.transferring)
	s.Write8(c.bitsLeft)
	s.Write16(c.counter)
}

func (c *Controller) Load(s *state.State) {
	c.data = s.Read8()
	c.control = s.Read8()
	c.transferring = s.ReadBool()
	c.bitsLeft = s.Read8()
	c.counter = s.Read16()
}
