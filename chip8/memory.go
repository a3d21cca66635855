package chip8

import (
	"fmt"
	"sync"
)

// Memory map
// 0x000 - 0x1FF	Reserved for the interpreter
// 0x050 - 0x09F	Font sprites 0-F
// 0x200 - 0xE9E	Program memory
// 0xEA0 - 0xFFF	Stack, work area and display refresh on the original
//                  machine, not backed here
const (
	MemorySize   = 0xE9F
	ProgramStart = 0x200
	StackDepth   = 24
	// MaxROMSize is the largest program accepted by LoadROM.
	MaxROMSize = 0xE9E - ProgramStart
)

// Memory holds the whole machine state: program memory, registers, the
// call stack and both timers. Only the timers are touched from more than one
// goroutine, everything else belongs to the CPU.
type Memory struct {
	data  [MemorySize]byte
	v     [16]byte
	i     uint16
	pc    uint16
	stack []uint16

	timerMu    sync.Mutex
	delayTimer byte
	soundTimer byte
}

// NewMemory creates a Memory with the font loaded and PC at ProgramStart.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears memory, registers, stack and timers and reloads the font.
func (m *Memory) Reset() {
	m.data = [MemorySize]byte{}
	m.v = [16]byte{}
	m.i = 0
	m.pc = ProgramStart
	m.stack = make([]uint16, 0, StackDepth)
	for d, glyph := range fontSet {
		copy(m.data[FontAddress(byte(d)):], glyph[:])
	}
	m.timerMu.Lock()
	m.delayTimer = 0
	m.soundTimer = 0
	m.timerMu.Unlock()
}

// LoadROM copies rom verbatim to ProgramStart.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) == 0 {
		return ErrEmptyROM
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: size=%d, max=%d", ErrROMTooLarge, len(rom), MaxROMSize)
	}
	copy(m.data[ProgramStart:], rom)
	return nil
}

// checkRange verifies that [address, address+n) is backed by memory.
func checkRange(address uint16, n int) error {
	if int(address)+n > MemorySize {
		return fmt.Errorf("%w: address=0x%04x, length=%d", ErrAddressOutOfRange, address, n)
	}
	return nil
}

// Read reads a byte.
func (m *Memory) Read(address uint16) (byte, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write writes a byte.
func (m *Memory) Write(address uint16, data byte) error {
	if err := checkRange(address, 1); err != nil {
		return err
	}
	m.data[address] = data
	return nil
}

// ReadRange returns a copy of n bytes starting at address.
func (m *Memory) ReadRange(address uint16, n int) ([]byte, error) {
	if err := checkRange(address, n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, m.data[address:])
	return buf, nil
}

// read16 reads a big endian instruction word.
func (m *Memory) read16(address uint16) (uint16, error) {
	if err := checkRange(address, 2); err != nil {
		return 0, err
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

func (m *Memory) V(x byte) byte {
	return m.v[x&0x0F]
}

func (m *Memory) SetV(x byte, data byte) {
	m.v[x&0x0F] = data
}

func (m *Memory) I() uint16 {
	return m.i
}

func (m *Memory) SetI(address uint16) {
	m.i = address
}

func (m *Memory) PC() uint16 {
	return m.pc
}

func (m *Memory) SetPC(address uint16) {
	m.pc = address
}

// Push pushes a return address.
func (m *Memory) Push(address uint16) error {
	if len(m.stack) >= StackDepth {
		return fmt.Errorf("%w: depth=%d, address=0x%04x", ErrStackOverflow, len(m.stack), address)
	}
	m.stack = append(m.stack, address)
	return nil
}

// Pop pops the latest return address.
func (m *Memory) Pop() (uint16, error) {
	if len(m.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	address := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return address, nil
}

// Stack returns a copy of the stack, oldest entry first.
func (m *Memory) Stack() []uint16 {
	return append([]uint16(nil), m.stack...)
}

func (m *Memory) DelayTimer() byte {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	return m.delayTimer
}

func (m *Memory) SetDelayTimer(data byte) {
	m.timerMu.Lock()
	m.delayTimer = data
	m.timerMu.Unlock()
}

// DecrementDelayTimer decrements the delay timer, it never goes below zero.
func (m *Memory) DecrementDelayTimer() {
	m.timerMu.Lock()
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	m.timerMu.Unlock()
}

func (m *Memory) SoundTimer() byte {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	return m.soundTimer
}

func (m *Memory) SetSoundTimer(data byte) {
	m.timerMu.Lock()
	m.soundTimer = data
	m.timerMu.Unlock()
}

// DecrementSoundTimer decrements the sound timer, it never goes below zero.
func (m *Memory) DecrementSoundTimer() {
	m.timerMu.Lock()
	if m.soundTimer > 0 {
		m.soundTimer--
	}
	m.timerMu.Unlock()
}
