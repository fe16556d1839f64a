// Package machine orchestrates one DMG core instance: construction of
// every component, the instruction-stepping loop, ROM loading, and the
// save-state format of spec.md §6.
package machine

import (
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/tenfold-systems/dmgcore/internal/apu"
	"github.com/tenfold-systems/dmgcore/internal/bus"
	"github.com/tenfold-systems/dmgcore/internal/cartridge"
	"github.com/tenfold-systems/dmgcore/internal/coreerr"
	"github.com/tenfold-systems/dmgcore/internal/cpu"
	"github.com/tenfold-systems/dmgcore/internal/interrupts"
	"github.com/tenfold-systems/dmgcore/internal/joypad"
	"github.com/tenfold-systems/dmgcore/internal/ppu"
	"github.com/tenfold-systems/dmgcore/internal/serial"
	"github.com/tenfold-systems/dmgcore/internal/state"
	"github.com/tenfold-systems/dmgcore/internal/timer"
	"github.com/tenfold-systems/dmgcore/pkg/log"
)

// stateVersion is written at the start of every save-state and checked
// on load; it is bumped whenever the component ordering or encoding
// below changes incompatibly.
const stateVersion = state.Version

// Machine is one runnable DMG core instance.
type Machine struct {
	CPU *cpu.CPU
	Bus *bus.Bus
	IRQ *interrupts.Controller

	cart *cartridge.Cartridge
	log  log.Logger
}

// New constructs a Machine with no cartridge inserted. Call LoadROM
// before stepping. sampleRate and onSample wire the APU's downsampler to
// a host audio callback; onSerialByte receives SB after each completed
// transfer over the (unconnected) serial port.
func New(sampleRate int, onSample apu.SampleCallback, onSerialByte serial.DataCallback) *Machine {
	irq := interrupts.NewController()
	p := ppu.New(irq)
	a := apu.New(sampleRate, onSample)
	t := timer.New(irq)
	j := joypad.New(irq)
	s := serial.New(irq)
	if onSerialByte != nil {
		s.SetDataCallback(onSerialByte)
	}

	b := bus.New(irq, p, a, t, j, s)
	c := cpu.New(b, irq)

	return &Machine{CPU: c, Bus: b, IRQ: irq, log: log.New("machine")}
}

// LoadROM parses rom and attaches the resulting cartridge, replacing any
// previously inserted one.
func (m *Machine) LoadROM(rom []byte) error {
	cart, err := cartridge.New(rom)
	if err != nil {
		return err
	}
	m.cart = cart
	m.Bus.Cart = cart
	m.log.WithField("type", cart.Header().CartridgeType.String()).Infof("cartridge loaded")
	return nil
}

// Cartridge returns the currently inserted cartridge, or nil.
func (m *Machine) Cartridge() *cartridge.Cartridge { return m.cart }

// StepResult reports what happened during one Step call.
type StepResult struct {
	Cycles     int
	FrameReady bool
}

// Step executes exactly one CPU instruction (or interrupt dispatch, or
// HALT/STOP idle cycle), ticking every peripheral in lockstep as it goes
// (spec.md §4.9).
func (m *Machine) Step() (StepResult, error) {
	cycles, err := m.CPU.Step()
	if err != nil {
		return StepResult{Cycles: cycles}, err
	}
	return StepResult{Cycles: cycles, FrameReady: m.Bus.PPU.FrameReady()}, nil
}

// RunUntilFrame steps the machine until a frame completes or an error
// occurs (e.g. an illegal opcode trap).
func (m *Machine) RunUntilFrame() (int, error) {
	total := 0
	for {
		r, err := m.Step()
		total += r.Cycles
		if err != nil {
			return total, err
		}
		if r.FrameReady {
			return total, nil
		}
	}
}

// ApplyInput applies a joypad input batch, and wakes the CPU from STOP
// if any button was pressed (spec.md §4.1: STOP resumes on a joypad
// press regardless of the joypad interrupt being enabled).
func (m *Machine) ApplyInput(in joypad.Inputs) {
	m.Bus.Joypad.Apply(in)
	if len(in.Pressed) > 0 {
		m.CPU.Resume()
	}
}

// Framebuffer returns the most recently completed frame.
func (m *Machine) Framebuffer() *[ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	return m.Bus.PPU.Framebuffer()
}

// SaveState serializes the machine's complete, resumable state: a
// version byte, the cartridge identity slice, then every component in a
// fixed order (spec.md §6). It returns coreerr.ErrSaving wrapping any
// failure, including "no cartridge inserted".
func (m *Machine) SaveState() ([]byte, error) {
	if m.cart == nil {
		return nil, fmt.Errorf("%w: no cartridge inserted", coreerr.ErrSaving)
	}
	s := state.New()
	s.Write8(stateVersion)
	s.WriteRaw(m.cart.IdentitySlice())

	m.CPU.Save(s)
	m.IRQ.Save(s)
	m.Bus.Save(s)
	m.Bus.PPU.Save(s)
	m.cart.Save(s)
	m.Bus.Timer.Save(s)
	m.Bus.Joypad.Save(s)
	m.Bus.APU.Save(s)
	m.Bus.Serial.Save(s)

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", coreerr.ErrSaving, err)
	}
	return s.Bytes(), nil
}

// StateHash returns a cheap content hash of the current save-state, so a
// host can cheaply compare two snapshots (e.g. a rewind buffer dedup, or
// the round-trip equivalence check of a save/load test) without a
// byte-by-byte diff. It wraps SaveState, so it fails the same way.
func (m *Machine) StateHash() (uint64, error) {
	data, err := m.SaveState()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// LoadState deserializes a save-state produced by SaveState directly into
// the live component graph. See the non-atomicity note below.
func (m *Machine) LoadState(data []byte) error {
	if m.cart == nil {
		return fmt.Errorf("%w: no cartridge inserted", coreerr.ErrLoading)
	}

	s := state.FromBytes(data)
	version := s.Read8()
	if version != stateVersion {
		return fmt.Errorf("%w: unsupported version %d", coreerr.ErrLoading, version)
	}
	identity := make([]byte, len(m.cart.IdentitySlice()))
	s.ReadRaw(identity)
	want := m.cart.IdentitySlice()
	for i := range want {
		if identity[i] != want[i] {
			return coreerr.ErrCartridgeMismatch
		}
	}

	// Decoded directly into the live component graph: CPU, the DMA
	// engine, and the bus all hold internal pointers to each other set up
	// at construction time, so swapping in a freshly-built parallel graph
	// would leave those cross-references dangling. A malformed or
	// truncated save-state can therefore leave the machine in a mixed
	// state; the host is expected to treat a LoadState error as fatal to
	// the Machine instance and rebuild one via New/LoadROM instead of
	// continuing to use it.
	m.CPU.Load(s)
	m.IRQ.Load(s)
	m.Bus.Load(s)
	m.Bus.PPU.Load(s)
	m.cart.Load(s)
	m.Bus.Timer.Load(s)
	m.Bus.Joypad.Load(s)
	m.Bus.APU.Load(s)
	m.Bus.Serial.Load(s)

	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %v", coreerr.ErrLoading, err)
	}
	return nil
}
