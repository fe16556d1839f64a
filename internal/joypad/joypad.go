// Package joypad emulates the Game Boy's button matrix: a 6-bit select
// register gating two active-low 4-bit half-matrices, with an
// edge-triggered Joypad interrupt.
package joypad

import (
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/state"
	"github.com/tenfold-systems/dmgcore/pkg/bits"
)

// Button identifies one physical button. The action buttons (A, B,
// Select, Start) and direction buttons (Right, Left, Up, Down) each
// occupy one bit of the internal Controller.state byte.
type Button uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

const RegP1 uint16 = 0xFF00

// Controller holds the joypad's select register and the latched button
// state.
type Controller struct {
	selectReg uint8 // bits 4-5 select direction/action half-matrices
	state     uint8 // bit set = button held, active-high internally

	irq *interrupts.Controller
}

// New returns a Controller with both half-matrices deselected, so the
// register reads 0xFF until a half-matrix is selected.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{selectReg: 0x30, irq: irq}
}

// Read returns the joypad register: the two select bits plus whichever
// half-matrix they enable, active-low, with unselected bits reading 1.
func (c *Controller) Read(uint16) uint8 {
	result := c.selectReg | 0xC0
	if c.selectReg&0x10 == 0 { // directions selected
		result |= 0x0F &^ (c.state >> 4)
	} else if c.selectReg&0x20 == 0 { // actions selected
		result |= 0x0F &^ (c.state & 0x0F)
	} else {
		result |= 0x0F
	}
	return result
}

// Write updates the select bits (the only writable bits of P1).
func (c *Controller) Write(_ uint16, value uint8) {
	c.selectReg = (c.selectReg & 0xCF) | (value & 0x30)
}

// Inputs batches a frame's worth of edge transitions so a host applies
// them atomically between Machine.Step calls.
type Inputs struct {
	Pressed  []Button
	Released []Button
}

// Apply processes a batch of button transitions, requesting the Joypad
// interrupt if any newly-pressed, currently-selected button transitions
// from released to held.
func (c *Controller) Apply(in Inputs) {
	for _, b := range in.Pressed {
		c.press(b)
	}
	for _, b := range in.Released {
		c.state &^= uint8(b)
	}
}

func (c *Controller) press(b Button) {
	wasHeld := c.state&uint8(b) != 0
	c.state |= uint8(b)
	if wasHeld {
		return
	}

	selected := false
	if uint8(b) <= uint8(ButtonStart) {
		selected = !bits.Test(c.selectReg, 5)
	} else {
		selected = !bits.Test(c.selectReg, 4)
	}
	if selected {
		c.irq.Request(interrupts.Joypad)
	}
}

var _ state.Stater = (*Controller)(nil)

func (c *Controller) Save(s *state.State) {
	s.Write8(c.selectReg)
	s.Write8(c.state)
}

func (c *Controller) Load(s *state.State) {
	c.selectReg = s.Read8()
	c.state = s.Read8()
}
