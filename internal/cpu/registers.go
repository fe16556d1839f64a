// Package cpu implements the SM83 CPU core: registers, flags, the
// fetch-decode-execute loop, interrupt dispatch, and the documented HALT
// and STOP quirks (spec.md §4.1).
package cpu

// Flag bit positions within the F register.
const (
	FlagZ = 0x80 // zero
	FlagN = 0x40 // subtract
	FlagH = 0x20 // half-carry
	FlagC = 0x10 // carry
)

// Registers holds the SM83's 8-bit registers and stack/program counters.
type Registers struct {
	A, F    uint8
	B, C    uint8
	D, E    uint8
	H, L    uint8
	SP      uint16
	PC      uint16
}

func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F&0xF0) }
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *Registers) SetAF(v uint16) { r.A = uint8(v >> 8); r.F = uint8(v) & 0xF0 }
func (r *Registers) SetBC(v uint16) { r.B = uint8(v >> 8); r.C = uint8(v) }
func (r *Registers) SetDE(v uint16) { r.D = uint8(v >> 8); r.E = uint8(v) }
func (r *Registers) SetHL(v uint16) { r.H = uint8(v >> 8); r.L = uint8(v) }

func (r *Registers) flag(mask uint8) bool { return r.F&mask != 0 }
func (r *Registers) setFlag(mask uint8, v bool) {
	if v {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}
