// Package cartridge implements ROM/RAM bank switching and read/write
// dispatch for the cartridge-side hardware: MBC-None, MBC1 and MBC3.
package cartridge

import "github.com/tenfold-systems/dmgcore/internal/state"

// MemoryBankController is the narrow surface each MBC variant implements.
// ROM reads cover 0x0000-0x7FFF; RAM reads/writes cover 0xA000-0xBFFF.
// ROM is never part of save-state (spec.md §6); only RAM and registers are.
type MemoryBankController interface {
	ReadROM(address uint16) uint8
	WriteROM(address uint16, value uint8)
	ReadRAM(address uint16) uint8
	WriteRAM(address uint16, value uint8)

	// RAM returns the external RAM backing store, for battery-save
	// persistence outside the save-state format.
	RAM() []byte

	state.Stater
}

// maskBank reduces a requested bank number to the cartridge's actual bank
// count, per spec.md §4.8 and the MBC1 testable property in §8.
func maskBank(bank, bankCount int) int {
	if bankCount == 0 {
		return 0
	}
	return bank % bankCount
}
