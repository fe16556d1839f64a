package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
)

// Register encoding: P1 bit4=0 selects the direction half-matrix, bit5=0
// selects the action half-matrix (both active-low, matching real DMG
// hardware). Writing 0x20 therefore selects directions; 0x10 selects
// actions.

func TestReadReflectsSelectedHalfMatrix(t *testing.T) {
	irq := interrupts.NewController()
	c := New(irq)

	c.Apply(Inputs{Pressed: []Button{ButtonA, ButtonUp}})

	c.Write(RegP1, 0x20) // directions selected
	assert.Equal(t, uint8(0xEB), c.Read(RegP1), "up held, reads low in the direction nibble")

	c.Write(RegP1, 0x10) // actions selected
	assert.Equal(t, uint8(0xDE), c.Read(RegP1), "A held, reads low in the action nibble")
}

func TestPressRequestsInterruptOnlyWhenSelected(t *testing.T) {
	irq := interrupts.NewController()
	irq.Write(interrupts.RegIE, 0xFF)
	irq.Write(interrupts.RegIF, 0x00) // drop the power-up VBlank flag
	c := New(irq)

	c.Write(RegP1, 0x20) // directions selected, actions deselected
	c.Apply(Inputs{Pressed: []Button{ButtonA}})
	assert.False(t, irq.Pending(), "A is an action button and actions are deselected")

	c.Apply(Inputs{Pressed: []Button{ButtonUp}})
	assert.True(t, irq.Pending(), "Up is a direction button and directions are selected")
}

func TestPressIsEdgeTriggeredNotLevel(t *testing.T) {
	irq := interrupts.NewController()
	irq.Write(interrupts.RegIE, 0xFF)
	irq.Write(interrupts.RegIF, 0x00) // drop the power-up VBlank flag
	c := New(irq)
	c.Write(RegP1, 0x10) // actions selected

	c.Apply(Inputs{Pressed: []Button{ButtonA}})
	assert.True(t, irq.Pending())
	irq.Clear(interrupts.Joypad)

	c.Apply(Inputs{Pressed: []Button{ButtonA}}) // already held, no new edge
	assert.False(t, irq.Pending())
}

func TestReleaseClearsState(t *testing.T) {
	irq := interrupts.NewController()
	c := New(irq)
	c.Apply(Inputs{Pressed: []Button{ButtonB}})
	c.Apply(Inputs{Released: []Button{ButtonB}})
	c.Write(RegP1, 0x10) // actions selected
	assert.Equal(t, uint8(0xDF), c.Read(RegP1), "B released, all action bits read unheld")
}
