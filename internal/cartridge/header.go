package cartridge

import "fmt"

// Type identifies the cartridge hardware, as encoded at ROM offset 0x147.
// Only the variants spec.md puts in scope are distinguished by name; any
// other documented type is recognized for reporting but unsupported.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBattery    Type = 0x03
	TypeMBC3TimerBattery  Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBattery    Type = 0x13
)

func (t Type) String() string {
	switch t {
	case TypeROM:
		return "ROM"
	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return "MBC1"
	case TypeMBC3, TypeMBC3RAM, TypeMBC3RAMBattery, TypeMBC3TimerBattery, TypeMBC3TimerRAMBatt:
		return "MBC3"
	default:
		return fmt.Sprintf("unknown(0x%02X)", uint8(t))
	}
}

// ramSizeTable maps the 0x149 RAM-size byte to a byte count, per the
// documented DMG encoding in spec.md §6.
var ramSizeTable = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024, // listed by some references; treated as 2KiB here
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// Header is the parsed cartridge header at ROM offset 0x100-0x14F.
type Header struct {
	Title            string
	ManufacturerCode string
	CGBFlag          uint8
	NewLicenseeCode  string
	SGBFlag          bool
	CartridgeType    Type
	ROMSize          int
	RAMSize          int
	OldLicenseeCode  uint8
	MaskROMVersion   uint8
	HeaderChecksum   uint8
	GlobalChecksum   uint16

	ChecksumValid bool
}

// ParseHeader parses the 0x100-0x14F slice of a ROM image. rom must be at
// least 0x150 bytes; callers check length before calling this (spec.md's
// CartridgeTooSmall).
func ParseHeader(rom []byte) Header {
	h := Header{}

	title := make([]byte, 0, 15)
	for i := 0x134; i <= 0x142; i++ {
		if rom[i] == 0 {
			break
		}
		title = append(title, rom[i])
	}
	h.Title = string(title)
	h.ManufacturerCode = string(rom[0x13F:0x143])
	h.CGBFlag = rom[0x143]
	h.SGBFlag = rom[0x146] == 0x03
	h.CartridgeType = Type(rom[0x147])
	h.ROMSize = 32 * 1024 * (1 << rom[0x148])
	h.RAMSize = ramSizeTable[rom[0x149]]
	h.OldLicenseeCode = rom[0x14B]
	h.NewLicenseeCode = string(rom[0x144:0x146])
	h.MaskROMVersion = rom[0x14C]
	h.HeaderChecksum = rom[0x14D]
	h.GlobalChecksum = uint16(rom[0x14E])<<8 | uint16(rom[0x14F])

	h.ChecksumValid = computeHeaderChecksum(rom) == h.HeaderChecksum
	return h
}

// computeHeaderChecksum implements spec.md's documented algorithm:
// acc = acc - byte - 1 over 0x134..0x14C, 8-bit wraparound.
func computeHeaderChecksum(rom []byte) uint8 {
	var acc uint8
	for i := 0x134; i <= 0x14C; i++ {
		acc = acc - rom[i] - 1
	}
	return acc
}

// IdentitySlice returns the 80-byte header slice (0x100-0x14F) used as
// the save-state identity check (spec.md §6).
func IdentitySlice(rom []byte) []byte {
	out := make([]byte, 0x50)
	copy(out, rom[0x100:0x150])
	return out
}
