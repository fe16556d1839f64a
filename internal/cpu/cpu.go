package cpu

import (
	"fmt"

	"github.com/tenfold-systems/dmgcore/internal/coreerr"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/state"
)

// Bus is the memory and peripheral surface the CPU drives. Tick advances
// every peripheral by one machine cycle; the CPU calls it once for every
// machine cycle it consumes, so peripherals stay in lockstep with
// execution rather than being caught up in a batch after the fact
// (spec.md §4.9).
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick()
}

// CPU is the SM83 core of spec.md §4.1.
type CPU struct {
	Registers

	bus Bus
	irq *interrupts.Controller

	halted   bool
	haltBug  bool
	stopped  bool

	cyclesThisStep int

	callDepth int

	// BreakpointHook, when set, is invoked for debug breakpoints: the
	// documented "LD B,B" marker opcode, and returning to call depth 0.
	// Nothing in the core sets it; a host can point it at debug tooling
	// such as internal/debugserver's Broadcast. Nil by default so it costs
	// nothing when unused.
	BreakpointHook func(reason string)
}

// New returns a CPU with the documented DMG post-boot register values
// (spec.md §6).
func New(bus Bus, irq *interrupts.Controller) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.A, c.F = 0x01, 0xB0
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	return c
}

func (c *CPU) Stopped() bool { return c.stopped }

// Resume clears STOP, e.g. when the joypad raises its interrupt.
func (c *CPU) Resume() { c.stopped = false }

func (c *CPU) tick() {
	c.bus.Tick()
	c.cyclesThisStep++
}

func (c *CPU) readMem(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.tick()
	return v
}

func (c *CPU) writeMem(addr uint16, v uint8) {
	c.bus.Write(addr, v)
	c.tick()
}

func (c *CPU) fetch() uint8 {
	if c.haltBug {
		c.haltBug = false
		return c.readMem(c.PC)
	}
	v := c.readMem(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return hi<<8 | lo
}

func (c *CPU) push(v uint16) {
	c.SP--
	c.writeMem(c.SP, uint8(v>>8))
	c.SP--
	c.writeMem(c.SP, uint8(v))
}

func (c *CPU) pop() uint16 {
	lo := uint16(c.readMem(c.SP))
	c.SP++
	hi := uint16(c.readMem(c.SP))
	c.SP++
	return hi<<8 | lo
}

// Step executes exactly one instruction (or one interrupt dispatch, or
// one HALT-idle cycle) and returns the number of machine cycles consumed.
func (c *CPU) Step() (int, error) {
	c.cyclesThisStep = 0
	c.irq.Tick()

	if c.halted {
		if c.irq.Pending() {
			c.halted = false
		} else {
			c.tick()
			return c.cyclesThisStep, nil
		}
	}

	if c.irq.IME && c.irq.Pending() {
		c.serviceInterrupt()
		return c.cyclesThisStep, nil
	}

	opcode := c.fetch()
	err := c.execute(opcode)
	return c.cyclesThisStep, err
}

func (c *CPU) serviceInterrupt() {
	c.tick()
	c.tick()
	src, ok := c.irq.NextSource()
	if !ok {
		return
	}
	c.push(c.PC)
	c.enterCall()
	c.irq.Clear(src)
	c.irq.DisableImmediately()
	c.PC = interrupts.Vector[src]
	c.tick() // loading PC from the vector takes its own machine cycle
}

func (c *CPU) enterCall() { c.callDepth++ }

// leaveCall runs on every RET/RETI and fires BreakpointHook when control
// returns all the way back to call depth 0.
func (c *CPU) leaveCall() {
	if c.callDepth > 0 {
		c.callDepth--
	}
	if c.callDepth == 0 && c.BreakpointHook != nil {
		c.BreakpointHook("return-to-depth-0")
	}
}

func illegalOpcode(opcode uint8) error {
	return fmt.Errorf("%w: 0x%02X", coreerr.ErrIllegalOpcodeTrap, opcode)
}

var _ state.Stater = (*CPU)(nil)

func (c *CPU) Save(s *state.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.WriteBool(c.halted)
	s.WriteBool(c.haltBug)
	s.WriteBool(c.stopped)
	s.Write32(uint32(c.callDepth))
}

func (c *CPU) Load(s *state.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.halted = s.ReadBool()
	c.haltBug = s.ReadBool()
	c.stopped = s.ReadBool()
	c.callDepth = int(s.Read32())
}
