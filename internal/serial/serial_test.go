package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
)

func TestInternalClockTransferCompletesAndRaisesInterrupt(t *testing.T) {
	irq := interrupts.NewController()
	irq.Write(interrupts.RegIE, 0xFF)
	c := New(irq)

	c.Write(RegSB, 0x00)
	c.Write(RegSC, 0x81) // start, internal clock

	for i := 0; i < 8*internalClockPeriod; i++ {
		c.Tick()
	}

	assert.True(t, irq.Pending())
	assert.Equal(t, uint8(0xFF), c.data, "no device attached, 1s shift in for every bit")
	assert.Equal(t, uint8(0), c.control&0x80, "transfer-start bit clears on completion")
}

func TestExternalClockTransferNeverCompletes(t *testing.T) {
	irq := interrupts.NewController()
	c := New(irq)
	c.Write(RegSC, 0x80) // start, external clock

	for i := 0; i < 8*internalClockPeriod*2; i++ {
		c.Tick()
	}
	assert.False(t, irq.Pending())
}

func TestDataCallbackReceivesCompletedByte(t *testing.T) {
	irq := interrupts.NewController()
	c := New(irq)
	var got uint8
	gotCalled := false
	c.SetDataCallback(func(b uint8) {
		got = b
		gotCalled = true
	})

	c.Write(RegSC, 0x81)
	for i := 0; i < 8*internalClockPeriod; i++ {
		c.Tick()
	}
	assert.True(t, gotCalled)
	assert.Equal(t, uint8(0xFF), got)
}
