package chip8

import "errors"

// Fatal conditions of the instruction stream. They are always wrapped with
// the offending opcode or address, use errors.Is to test for them.
var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrAddressOutOfRange  = errors.New("address out of range")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrROMTooLarge        = errors.New("rom too large")
	ErrEmptyROM           = errors.New("empty rom")
)
