// Package apu implements the Game Boy's Audio Processing Unit: the 512 Hz
// frame sequencer, four sound channels, the NR50/NR51 mixer, a DC-blocking
// high-pass filter, and a fixed-ratio downsampler that calls a host sample
// callback. Audio output (an actual sound device) is a host concern and
// out of scope here (spec.md §1 Non-goals).
package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

const (
	tCyclesPerFrameSeqStep = 8192
	hostCPUFrequency       = 4194304
)

// SampleCallback receives one stereo sample, each channel in [-1, 1].
type SampleCallback func(left, right float32)

// APU is the Audio Processing Unit of spec.md §4.4.
type APU struct {
	square1 square
	square2 square
	wave    wave
	noise   noise

	nr50, nr51 uint8
	powered    bool

	frameSeqStep    uint8
	frameSeqCounter int

	sampleRate      int
	cyclesPerSample int
	sampleAccum     int
	onSample        SampleCallback

	hpfL, hpfR *highPassFilter
}

// New returns an APU producing samples at sampleRate Hz via onSample.
func New(sampleRate int, onSample SampleCallback) *APU {
	a := &APU{
		square1:         square{hasSweep: true},
		square2:         square{hasSweep: false},
		sampleRate:      sampleRate,
		cyclesPerSample: hostCPUFrequency / sampleRate,
		onSample:        onSample,
		hpfL:            newHighPassFilter(sampleRate),
		hpfR:            newHighPassFilter(sampleRate),
		powered:         true,
	}
	return a
}

// SetSampleCallback rewires the host callback, e.g. after a save-state
// load reconstructs the APU without one.
func (a *APU) SetSampleCallback(cb SampleCallback) { a.onSample = cb }

// Tick advances the APU by one machine cycle (4 T-cycles).
func (a *APU) Tick() {
	for i := 0; i < 4; i++ {
		a.tickTCycle()
	}
}

func (a *APU) tickTCycle() {
	if a.powered {
		a.square1.tick()
		a.square2.tick()
		a.wave.tick()
		a.noise.tick()
	}

	a.frameSeqCounter++
	if a.frameSeqCounter >= tCyclesPerFrameSeqStep {
		a.frameSeqCounter -= tCyclesPerFrameSeqStep
		a.stepFrameSequencer()
	}

	a.sampleAccum++
	if a.sampleAccum >= a.cyclesPerSample {
		a.sampleAccum -= a.cyclesPerSample
		a.emitSample()
	}
}

func (a *APU) stepFrameSequencer() {
	switch a.frameSeqStep {
	case 0:
		a.tickLengths()
	case 2:
		a.tickLengths()
		a.square1.tickSweep()
	case 4:
		a.tickLengths()
	case 6:
		a.tickLengths()
		a.square1.tickSweep()
	case 7:
		a.square1.env.tick()
		a.square2.env.tick()
		a.noise.env.tick()
	}
	a.frameSeqStep = (a.frameSeqStep + 1) % 8
}

func (a *APU) tickLengths() {
	a.square1.tickLength()
	a.square2.tickLength()
	a.wave.tickLength()
	a.noise.tickLength()
}

func (a *APU) emitSample() {
	if a.onSample == nil {
		return
	}
	if !a.powered {
		a.onSample(0, 0)
		return
	}

	amps := [4]uint8{a.square1.amplitude(), a.square2.amplitude(), a.wave.amplitude(), a.noise.amplitude()}
	var left, right float32
	for i, amp := range amps {
		v := float32(amp)/7.5 - 1.0
		if a.nr51&(1<<uint(i)) != 0 {
			right += v
		}
		if a.nr51&(1<<uint(i+4)) != 0 {
			left += v
		}
	}
	left /= 4
	right /= 4

	leftVol := float32((a.nr50>>4)&0x07+1) / 8
	rightVol := float32(a.nr50&0x07+1) / 8
	left = a.hpfL.apply(left * leftVol)
	right = a.hpfR.apply(right * rightVol)

	a.onSample(left, right)
}

var _ state.Stater = (*APU)(nil)
