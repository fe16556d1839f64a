// Package dma implements the OAM DMA engine: a write to 0xFF46 starts a
// 160-byte, one-byte-per-machine-cycle copy into OAM, during which the
// CPU's bus access is restricted to High RAM.
package dma

import "github.com/tenfold-systems/dmgcore/internal/state"

const RegDMA uint16 = 0xFF46

// SourceReader reads a byte from the wider bus; DMA uses it to fetch the
// byte it copies into OAM each cycle.
type SourceReader interface {
	ReadForDMA(address uint16) uint8
}

// OAMWriter is the destination of a DMA transfer.
type OAMWriter interface {
	WriteOAMByte(offset uint8, value uint8)
}

// Engine is the OAM DMA component of spec.md §4.6.
type Engine struct {
	reg    uint8
	active bool
	cursor uint8 // 0..159, next byte offset to copy

	src  SourceReader
	dest OAMWriter
}

// New returns an Engine wired to the bus it reads from and the OAM it
// writes to.
func New(src SourceReader, dest OAMWriter) *Engine {
	return &Engine{src: src, dest: dest}
}

// Active reports whether a transfer is in progress; while true, the bus
// restricts CPU reads/writes to High RAM only (spec.md §4.6).
func (e *Engine) Active() bool { return e.active }

func (e *Engine) Read(uint16) uint8 { return e.reg }

// Write starts (or restarts) a transfer from (value<<8).
func (e *Engine) Write(_ uint16, value uint8) {
	e.reg = value
	e.active = true
	e.cursor = 0
}

// Tick copies one byte, advancing the cursor. It must be called once per
// machine cycle; after 160 calls the transfer completes.
func (e *Engine) Tick() {
	if !e.active {
		return
	}
	source := uint16(e.reg)<<8 + uint16(e.cursor)
	e.dest.WriteOAMByte(e.cursor, e.src.ReadForDMA(source))
	e.cursor++
	if e.cursor >= 160 {
		e.active = false
	}
}

var _ state.Stater = (*Engine)(nil)

func (e *Engine) Save(s *state.State) {
	s.Write8(e.reg)
	s.WriteBool(e.active)
	s.Write8(e.cursor)
}

func (e *Engine) Load(s *state.State) {
	e.reg = s.Read8()
	e.active = s.ReadBool()
	e.cursor = s.Read8()
}
