package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

// highPassFilter is a single-pole high-pass filter approximating the
// DMG's output capacitor (~30 Hz cutoff per spec.md §4.4), removing the
// DC bias the DAC otherwise leaves on a muted channel.
type highPassFilter struct {
	capacitor float32
	charge    float32 // per-sample charge factor, derived from sample rate
}

func newHighPassFilter(sampleRate int) *highPassFilter {
	const cutoffHz = 30.0
	rc := 1.0 / (2.0 * 3.14159265 * cutoffHz)
	dt := 1.0 / float32(sampleRate)
	return &highPassFilter{charge: float32(rc) / (float32(rc) + dt)}
}

func (f *highPassFilter) apply(in float32) float32 {
	out := in - f.capacitor
	f.capacitor = in - out*f.charge
	return out
}

func (f *highPassFilter) save(s *state.State) {
	s.Write32(float32bits(f.capacitor))
	s.Write32(float32bits(f.charge))
}

func (f *highPassFilter) load(s *state.State) {
	f.capacitor = bitsFloat32(s.Read32())
	f.charge = bitsFloat32(s.Read32())
}
