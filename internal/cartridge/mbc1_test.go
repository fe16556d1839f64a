package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// makeROM returns a ROM of the given bank count, with each bank's first
// byte set to its own bank number so reads can verify addressing.
func makeROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return rom
}

func TestMBC1Mode0BankSwitch(t *testing.T) {
	m := newMBC1(makeROM(128), 0)
	m.WriteROM(0x2000, 0x05) // bankLow = 5
	m.WriteROM(0x4000, 0x01) // bankHigh = 1 -> upper bits of bank

	assert.Equal(t, uint8(0), m.ReadROM(0x0000)) // fixed bank 0 in mode 0
	assert.Equal(t, uint8(1<<5|5), m.ReadROM(0x4000))
}

func TestMBC1Mode1Banks0x20Region(t *testing.T) {
	m := newMBC1(makeROM(128), 0)
	m.WriteROM(0x6000, 0x01) // mode 1
	m.WriteROM(0x4000, 0x01) // bankHigh = 1
	m.WriteROM(0x2000, 0x00) // bankLow write of 0 corrects to 1

	// In mode 1, the 0x0000-0x3FFF window is also banked by bankHigh<<5.
	assert.Equal(t, uint8(1<<5), m.ReadROM(0x0000))
	assert.Equal(t, uint8(1<<5|1), m.ReadROM(0x4000))
}

func TestMBC1BankLowZeroCorrectsToOne(t *testing.T) {
	m := newMBC1(makeROM(4), 0)
	m.WriteROM(0x2000, 0x00)
	assert.Equal(t, uint8(1), m.ReadROM(0x4000))
}

func TestMBC1RAMRequiresEnable(t *testing.T) {
	m := newMBC1(makeROM(2), 0x2000)
	m.WriteRAM(0xA000, 0x99)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000), "disabled RAM reads open-bus")

	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x99)
	assert.Equal(t, uint8(0x99), m.ReadRAM(0xA000))
}
