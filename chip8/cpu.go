package chip8

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/golang/glog"
)

// CPU fetches, decodes and executes CHIP-8 instructions.
// References:
//   http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//   https://github.com/mattmikolay/chip-8/wiki/CHIP%E2%80%908-Instruction-Set
type CPU struct {
	memory  *Memory
	display *Display
	input   Input
	quirks  Quirks
	rand    *rand.Rand

	// For debug
	lastPC          uint16
	lastInstruction Instruction
	executed        atomic.Uint64
}

// NewCPU creates a CPU, seed makes RND reproducible.
func NewCPU(memory *Memory, display *Display, input Input, quirks Quirks, seed uint64) *CPU {
	return &CPU{
		memory:  memory,
		display: display,
		input:   input,
		quirks:  quirks,
		rand:    rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

// Executed returns the number of instructions executed so far.
func (c *CPU) Executed() uint64 {
	return c.executed.Load()
}

// Fetch decodes the instruction at PC without executing it.
func (c *CPU) Fetch() (Instruction, error) {
	pc := c.memory.pc
	if pc < ProgramStart {
		return Instruction{}, fmt.Errorf("%w: pc=0x%04x is below program memory", ErrAddressOutOfRange, pc)
	}
	opcode, err := c.memory.read16(pc)
	if err != nil {
		return Instruction{}, fmt.Errorf("fetching pc=0x%04x: %w", pc, err)
	}
	ins, err := Decode(byte(opcode>>8), byte(opcode))
	if err != nil {
		return Instruction{}, fmt.Errorf("decoding pc=0x%04x: %w", pc, err)
	}
	return ins, nil
}

// Step performs the instruction cycle - fetch, decode, execute.
func (c *CPU) Step(ctx context.Context) error {
	pc := c.memory.pc
	ins, err := c.Fetch()
	if err != nil {
		return err
	}
	c.memory.pc += 2
	c.lastPC = pc
	c.lastInstruction = ins
	if glog.V(2) {
		glog.Infof("PC=0x%04x, I=0x%04x, opcode=0x%04x, %s", pc, c.memory.i, ins.Opcode, Disassemble(ins.Opcode))
	}
	if err := c.execute(ctx, ins); err != nil {
		// a failed instruction has no effect, it runs again on the next step
		c.memory.pc = pc
		return fmt.Errorf("executing %s at pc=0x%04x: %w", Disassemble(ins.Opcode), pc, err)
	}
	c.executed.Add(1)
	return nil
}

// Run steps until ctx is done or an instruction fails.
func (c *CPU) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
}

func (c *CPU) execute(ctx context.Context, ins Instruction) error {
	switch ins.Op {
	case OpCLS:
		return c.cls(ins)
	case OpRET:
		return c.ret(ins)
	case OpJP:
		return c.jp(ins)
	case OpCALL:
		return c.call(ins)
	case OpSEByte:
		return c.seByte(ins)
	case OpSNEByte:
		return c.sneByte(ins)
	case OpSEReg:
		return c.seReg(ins)
	case OpLDByte:
		return c.ldByte(ins)
	case OpADDByte:
		return c.addByte(ins)
	case OpLDReg:
		return c.ldReg(ins)
	case OpOR:
		return c.or(ins)
	case OpAND:
		return c.and(ins)
	case OpXOR:
		return c.xor(ins)
	case OpADDReg:
		return c.addReg(ins)
	case OpSUB:
		return c.sub(ins)
	case OpSHR:
		return c.shr(ins)
	case OpSUBN:
		return c.subn(ins)
	case OpSHL:
		return c.shl(ins)
	case OpSNEReg:
		return c.sneReg(ins)
	case OpLDI:
		return c.ldi(ins)
	case OpJPV0:
		return c.jpV0(ins)
	case OpRND:
		return c.rnd(ins)
	case OpDRW:
		return c.drw(ins)
	case OpSKP:
		return c.skp(ins)
	case OpSKNP:
		return c.sknp(ins)
	case OpLDVxDT:
		return c.ldVxDT(ins)
	case OpLDVxK:
		return c.ldVxK(ctx, ins)
	case OpLDDTVx:
		return c.ldDTVx(ins)
	case OpLDSTVx:
		return c.ldSTVx(ins)
	case OpADDI:
		return c.addI(ins)
	case OpLDF:
		return c.ldF(ins)
	case OpLDB:
		return c.ldB(ins)
	case OpLDIVx:
		return c.ldIVx(ins)
	case OpLDVxI:
		return c.ldVxI(ins)
	}
	return unknownInstruction(ins.Opcode)
}

// skipIf skips the next instruction when cond holds.
func (c *CPU) skipIf(cond bool) {
	if cond {
		c.memory.pc += 2
	}
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// CLS - Clear the display.
func (c *CPU) cls(ins Instruction) error {
	c.display.Clear()
	return nil
}

// RET - Return from a subroutine.
func (c *CPU) ret(ins Instruction) error {
	address, err := c.memory.Pop()
	if err != nil {
		return err
	}
	c.memory.pc = address
	return nil
}

// JP addr - Jump.
func (c *CPU) jp(ins Instruction) error {
	c.memory.pc = ins.NNN
	return nil
}

// CALL addr - Call a subroutine, the return address is the next instruction.
func (c *CPU) call(ins Instruction) error {
	if err := c.memory.Push(c.memory.pc); err != nil {
		return err
	}
	c.memory.pc = ins.NNN
	return nil
}

// SE Vx, byte - Skip if equal.
func (c *CPU) seByte(ins Instruction) error {
	c.skipIf(c.memory.v[ins.X] == ins.NN)
	return nil
}

// SNE Vx, byte - Skip if not equal.
func (c *CPU) sneByte(ins Instruction) error {
	c.skipIf(c.memory.v[ins.X] != ins.NN)
	return nil
}

// SE Vx, Vy - Skip if registers are equal.
func (c *CPU) seReg(ins Instruction) error {
	c.skipIf(c.memory.v[ins.X] == c.memory.v[ins.Y])
	return nil
}

// SNE Vx, Vy - Skip if registers are not equal.
func (c *CPU) sneReg(ins Instruction) error {
	c.skipIf(c.memory.v[ins.X] != c.memory.v[ins.Y])
	return nil
}

// LD Vx, byte
func (c *CPU) ldByte(ins Instruction) error {
	c.memory.v[ins.X] = ins.NN
	return nil
}

// ADD Vx, byte - Wraps around, VF is not affected.
func (c *CPU) addByte(ins Instruction) error {
	c.memory.v[ins.X] += ins.NN
	return nil
}

// LD Vx, Vy
func (c *CPU) ldReg(ins Instruction) error {
	c.memory.v[ins.X] = c.memory.v[ins.Y]
	return nil
}

// OR Vx, Vy
func (c *CPU) or(ins Instruction) error {
	c.memory.v[ins.X] |= c.memory.v[ins.Y]
	return nil
}

// AND Vx, Vy
func (c *CPU) and(ins Instruction) error {
	c.memory.v[ins.X] &= c.memory.v[ins.Y]
	return nil
}

// XOR Vx, Vy
func (c *CPU) xor(ins Instruction) error {
	c.memory.v[ins.X] ^= c.memory.v[ins.Y]
	return nil
}

// ADD Vx, Vy - VF is the carry.
func (c *CPU) addReg(ins Instruction) error {
	sum := uint16(c.memory.v[ins.X]) + uint16(c.memory.v[ins.Y])
	c.memory.v[ins.X] = byte(sum)
	c.memory.v[0xF] = flag(sum > 0xFF)
	return nil
}

// difference computes a - b for SUB and SUBN.
func (c *CPU) difference(a, b byte) byte {
	if c.quirks.WrapSubtract || a >= b {
		return a - b
	}
	return b - a
}

// SUB Vx, Vy - VF is 1 when Vx > Vy.
func (c *CPU) sub(ins Instruction) error {
	x, y := c.memory.v[ins.X], c.memory.v[ins.Y]
	c.memory.v[ins.X] = c.difference(x, y)
	c.memory.v[0xF] = flag(x > y)
	return nil
}

// SUBN Vx, Vy - Vx = Vy - Vx, VF is 1 when Vy > Vx.
func (c *CPU) subn(ins Instruction) error {
	x, y := c.memory.v[ins.X], c.memory.v[ins.Y]
	c.memory.v[ins.X] = c.difference(y, x)
	c.memory.v[0xF] = flag(y > x)
	return nil
}

// SHR Vx - VF is the bit shifted out.
func (c *CPU) shr(ins Instruction) error {
	x := c.memory.v[ins.X]
	c.memory.v[ins.X] = x >> 1
	c.memory.v[0xF] = x & 1
	return nil
}

// SHL Vx - VF is bit 0 of Vx, or bit 7 with Quirks.ShiftLeftHighBit.
func (c *CPU) shl(ins Instruction) error {
	x := c.memory.v[ins.X]
	c.memory.v[ins.X] = x << 1
	if c.quirks.ShiftLeftHighBit {
		c.memory.v[0xF] = x >> 7
	} else {
		c.memory.v[0xF] = x & 1
	}
	return nil
}

// LD I, addr
func (c *CPU) ldi(ins Instruction) error {
	c.memory.i = ins.NNN
	return nil
}

// JP V0, addr
func (c *CPU) jpV0(ins Instruction) error {
	c.memory.pc = ins.NNN + uint16(c.memory.v[0])
	return nil
}

// RND Vx, byte
func (c *CPU) rnd(ins Instruction) error {
	c.memory.v[ins.X] = byte(c.rand.Uint32()) & ins.NN
	return nil
}

// DRW Vx, Vy, nibble - Draws n rows read from I, VF is the collision.
func (c *CPU) drw(ins Instruction) error {
	rows, err := c.memory.ReadRange(c.memory.i, int(ins.N))
	if err != nil {
		return err
	}
	collision := c.display.DrawSprite(rows, int(c.memory.v[ins.X]), int(c.memory.v[ins.Y]))
	c.memory.v[0xF] = flag(collision)
	return nil
}

// SKP Vx - Skip if the key Vx is pressed.
func (c *CPU) skp(ins Instruction) error {
	key, ok := c.input.Poll()
	c.skipIf(ok && key == c.memory.v[ins.X])
	return nil
}

// SKNP Vx - Skip if the key Vx is not pressed.
func (c *CPU) sknp(ins Instruction) error {
	key, ok := c.input.Poll()
	c.skipIf(!ok || key != c.memory.v[ins.X])
	return nil
}

// LD Vx, DT
func (c *CPU) ldVxDT(ins Instruction) error {
	c.memory.v[ins.X] = c.memory.DelayTimer()
	return nil
}

// LD Vx, K - Blocks until a key is pressed or ctx is cancelled.
func (c *CPU) ldVxK(ctx context.Context, ins Instruction) error {
	key, err := c.input.WaitForKey(ctx)
	if err != nil {
		return err
	}
	c.memory.v[ins.X] = key
	return nil
}

// LD DT, Vx
func (c *CPU) ldDTVx(ins Instruction) error {
	c.memory.SetDelayTimer(c.memory.v[ins.X])
	return nil
}

// LD ST, Vx
func (c *CPU) ldSTVx(ins Instruction) error {
	c.memory.SetSoundTimer(c.memory.v[ins.X])
	return nil
}

// ADD I, Vx - VF is not affected.
func (c *CPU) addI(ins Instruction) error {
	c.memory.i += uint16(c.memory.v[ins.X])
	return nil
}

// LD F, Vx - I is set to the glyph of the low nibble of Vx.
func (c *CPU) ldF(ins Instruction) error {
	c.memory.i = FontAddress(c.memory.v[ins.X])
	return nil
}

// LD B, Vx - Stores hundreds, tens and ones of Vx at I, I+1 and I+2.
func (c *CPU) ldB(ins Instruction) error {
	if err := checkRange(c.memory.i, 3); err != nil {
		return err
	}
	x := c.memory.v[ins.X]
	c.memory.data[c.memory.i] = x / 100
	c.memory.data[c.memory.i+1] = x / 10 % 10
	c.memory.data[c.memory.i+2] = x % 10
	return nil
}

// LD [I], Vx - Stores V0 to Vx at I, I is left unchanged.
func (c *CPU) ldIVx(ins Instruction) error {
	n := int(ins.X) + 1
	if err := checkRange(c.memory.i, n); err != nil {
		return err
	}
	copy(c.memory.data[c.memory.i:], c.memory.v[:n])
	return nil
}

// LD Vx, [I] - Loads V0 to Vx from I, I is left unchanged.
func (c *CPU) ldVxI(ins Instruction) error {
	n := int(ins.X) + 1
	if err := checkRange(c.memory.i, n); err != nil {
		return err
	}
	copy(c.memory.v[:n], c.memory.data[c.memory.i:])
	return nil
}

// LastExecution describes the last executed instruction.
func (c *CPU) LastExecution() string {
	if c.executed.Load() == 0 {
		return "none"
	}
	return fmt.Sprintf("PC=0x%04x, opcode=0x%04x, %s", c.lastPC, c.lastInstruction.Opcode, Disassemble(c.lastInstruction.Opcode))
}

func (c *CPU) String() string {
	m := c.memory
	var v strings.Builder
	for i, x := range m.v {
		if i > 0 {
			v.WriteByte(' ')
		}
		fmt.Fprintf(&v, "V%X=%02X", i, x)
	}
	return fmt.Sprintf("PC=0x%04x, I=0x%04x, SP=%d, DT=0x%02x, ST=0x%02x, %s",
		m.pc, m.i, len(m.stack), m.DelayTimer(), m.SoundTimer(), v.String())
}
