// Package ram provides the flat, byte-addressable memory regions shared
// by the bus: Work RAM and High RAM. Both are pure storage; the bus owns
// address translation.
package ram

import "github.com/tenfold-systems/dmgcore/internal/state"

// RAM is a fixed-size, zero-based byte region.
type RAM struct {
	data []byte
}

// New returns a RAM of the given size, zero-initialized.
func New(size int) *RAM {
	return &RAM{data: make([]byte, size)}
}

func (r *RAM) Read(offset uint16) uint8 {
	return r.data[offset]
}

func (r *RAM) Write(offset uint16, value uint8) {
	r.data[offset] = value
}

func (r *RAM) Len() int { return len(r.data) }

var _ state.Stater = (*RAM)(nil)

func (r *RAM) Save(s *state.State) {
	s.WriteRaw(r.data)
}

func (r *RAM) Load(s *state.State) {
	s.ReadRaw(r.data)
}
