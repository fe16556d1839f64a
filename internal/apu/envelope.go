package apu

import "github.com/tenfold-systems/dmgcore/internal/state"

// envelope is the shared volume-envelope unit used by the square and
// noise channels (spec.md §4.4).
type envelope struct {
	initialVolume uint8
	direction     bool // true = increase
	period        uint8

	volume uint8
	timer  uint8
}

func (e *envelope) trigger() {
	e.volume = e.initialVolume
	e.timer = e.period
}

// tick runs once per frame-sequencer step 7 (64 Hz).
func (e *envelope) tick() {
	if e.period == 0 {
		return
	}
	if e.timer > 0 {
		e.timer--
	}
	if e.timer == 0 {
		e.timer = e.period
		if e.direction && e.volume < 15 {
			e.volume++
		} else if !e.direction && e.volume > 0 {
			e.volume--
		}
	}
}

func (e *envelope) dacEnabled() bool {
	return e.initialVolume != 0 || e.direction
}

func (e *envelope) save(s *state.State) {
	s.Write8(e.initialVolume)
	s.WriteBool(e.direction)
	s.Write8(e.period)
	s.Write8(e.volume)
	s.Write8(e.timer)
}

func (e *envelope) load(s *state.State) {
	e.initialVolume = s.Read8()
	e.direction = s.ReadBool()
	e.period = s.Read8()
	e.volume = s.Read8()
	e.timer = s.Read8()
}
