// Package coreerr defines the sentinel errors the core returns to its
// host, per spec.md §6's error taxonomy. Every fallible core operation
// returns one of these (wrapped with context via fmt.Errorf("...: %w", ...))
// rather than panicking.
package coreerr

import "errors"

var (
	// ErrCartridgeTooSmall is returned when a ROM image is shorter than
	// the minimum needed to contain a header.
	ErrCartridgeTooSmall = errors.New("cartridge: ROM too small to contain a header")

	// ErrBadHeaderChecksum is returned when the header checksum at 0x14D
	// does not match the computed value.
	ErrBadHeaderChecksum = errors.New("cartridge: header checksum mismatch")

	// ErrUnsupportedCartridgeType is returned for a cartridge type byte
	// this core does not implement (spec.md Non-goals: MBC5/6/7 and
	// bit-level MBC obscurities).
	ErrUnsupportedCartridgeType = errors.New("cartridge: unsupported cartridge type")

	// ErrOpenFile is returned when a ROM or save-state file cannot be read.
	ErrOpenFile = errors.New("core: failed to open file")

	// ErrCartridgeMismatch is returned when a save-state's embedded header
	// identity slice does not match the currently loaded cartridge.
	ErrCartridgeMismatch = errors.New("machine: save-state cartridge identity mismatch")

	// ErrLoading is returned when a save-state fails to deserialize. The
	// machine's component graph may be left partially overwritten; the
	// host should discard the Machine rather than keep stepping it.
	ErrLoading = errors.New("machine: save-state failed to load")

	// ErrSaving is returned when a save-state fails to serialize or write.
	ErrSaving = errors.New("machine: save-state failed to save")

	// ErrIllegalOpcodeTrap is returned (and surfaced via Machine.Step) when
	// the CPU fetches one of the undefined SM83 opcodes.
	ErrIllegalOpcodeTrap = errors.New("cpu: illegal opcode trap")
)
