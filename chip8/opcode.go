package chip8

import "fmt"

// Op identifies one CHIP-8 instruction.
// References:
//   http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
//   https://en.wikipedia.org/wiki/CHIP-8#Opcode_table
type Op int

const (
	OpCLS      Op = iota // 00E0
	OpRET                // 00EE
	OpJP                 // 1nnn
	OpCALL               // 2nnn
	OpSEByte             // 3xnn
	OpSNEByte            // 4xnn
	OpSEReg              // 5xy0
	OpLDByte             // 6xnn
	OpADDByte            // 7xnn
	OpLDReg              // 8xy0
	OpOR                 // 8xy1
	OpAND                // 8xy2
	OpXOR                // 8xy3
	OpADDReg             // 8xy4
	OpSUB                // 8xy5
	OpSHR                // 8xy6
	OpSUBN               // 8xy7
	OpSHL                // 8xyE
	OpSNEReg             // 9xy0
	OpLDI                // Annn
	OpJPV0               // Bnnn
	OpRND                // Cxnn
	OpDRW                // Dxyn
	OpSKP                // Ex9E
	OpSKNP               // ExA1
	OpLDVxDT             // Fx07
	OpLDVxK              // Fx0A
	OpLDDTVx             // Fx15
	OpLDSTVx             // Fx18
	OpADDI               // Fx1E
	OpLDF                // Fx29
	OpLDB                // Fx33
	OpLDIVx              // Fx55
	OpLDVxI              // Fx65
)

var opNames = [...]string{
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE Vx, byte",
	OpSNEByte: "SNE Vx, byte",
	OpSEReg:   "SE Vx, Vy",
	OpLDByte:  "LD Vx, byte",
	OpADDByte: "ADD Vx, byte",
	OpLDReg:   "LD Vx, Vy",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD Vx, Vy",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE Vx, Vy",
	OpLDI:     "LD I, addr",
	OpJPV0:    "JP V0, addr",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD Vx, DT",
	OpLDVxK:   "LD Vx, K",
	OpLDDTVx:  "LD DT, Vx",
	OpLDSTVx:  "LD ST, Vx",
	OpADDI:    "ADD I, Vx",
	OpLDF:     "LD F, Vx",
	OpLDB:     "LD B, Vx",
	OpLDIVx:   "LD [I], Vx",
	OpLDVxI:   "LD Vx, [I]",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Instruction is a decoded opcode. Only the operand fields of the opcode's
// family are meaningful, see Operands.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      byte   // register index, low nibble of the first byte
	Y      byte   // register index, high nibble of the second byte
	N      byte   // sprite height, low nibble of the second byte
	NN     byte   // 8-bit literal, the second byte
	NNN    uint16 // 12-bit address or literal
}

// Operands returns the ordered operand tuple of the instruction's family.
func (ins Instruction) Operands() []uint16 {
	switch ins.Opcode >> 12 {
	case 0x0:
		return nil
	case 0x1, 0x2, 0xA, 0xB:
		return []uint16{ins.NNN}
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return []uint16{uint16(ins.X), uint16(ins.NN)}
	case 0x5, 0x8, 0x9:
		return []uint16{uint16(ins.X), uint16(ins.Y)}
	case 0xD:
		return []uint16{uint16(ins.X), uint16(ins.Y), uint16(ins.N)}
	default: // 0xE, 0xF
		return []uint16{uint16(ins.X)}
	}
}

func (ins Instruction) String() string {
	return fmt.Sprintf("%04X %s", ins.Opcode, ins.Op)
}

func unknownInstruction(opcode uint16) error {
	return fmt.Errorf("%w: opcode=0x%04x", ErrUnknownInstruction, opcode)
}

// Decode decodes a two byte instruction, hi is the byte at the lower address.
func Decode(hi, lo byte) (Instruction, error) {
	opcode := uint16(hi)<<8 | uint16(lo)
	ins := Instruction{
		Opcode: opcode,
		X:      hi & 0x0F,
		Y:      lo >> 4,
		N:      lo & 0x0F,
		NN:     lo,
		NNN:    opcode & 0x0FFF,
	}
	switch hi >> 4 {
	case 0x0:
		// the low nibble of the first byte is ignored
		switch lo {
		case 0xE0:
			ins.Op = OpCLS
		case 0xEE:
			ins.Op = OpRET
		default:
			return Instruction{}, unknownInstruction(opcode)
		}
	case 0x1:
		ins.Op = OpJP
	case 0x2:
		ins.Op = OpCALL
	case 0x3:
		ins.Op = OpSEByte
	case 0x4:
		ins.Op = OpSNEByte
	case 0x5:
		if ins.N != 0 {
			return Instruction{}, unknownInstruction(opcode)
		}
		ins.Op = OpSEReg
	case 0x6:
		ins.Op = OpLDByte
	case 0x7:
		ins.Op = OpADDByte
	case 0x8:
		switch ins.N {
		case 0x0:
			ins.Op = OpLDReg
		case 0x1:
			ins.Op = OpOR
		case 0x2:
			ins.Op = OpAND
		case 0x3:
			ins.Op = OpXOR
		case 0x4:
			ins.Op = OpADDReg
		case 0x5:
			ins.Op = OpSUB
		case 0x6:
			ins.Op = OpSHR
		case 0x7:
			ins.Op = OpSUBN
		case 0xE:
			ins.Op = OpSHL
		default:
			return Instruction{}, unknownInstruction(opcode)
		}
	case 0x9:
		if ins.N != 0 {
			return Instruction{}, unknownInstruction(opcode)
		}
		ins.Op = OpSNEReg
	case 0xA:
		ins.Op = OpLDI
	case 0xB:
		ins.Op = OpJPV0
	case 0xC:
		ins.Op = OpRND
	case 0xD:
		ins.Op = OpDRW
	case 0xE:
		switch lo {
		case 0x9E:
			ins.Op = OpSKP
		case 0xA1:
			ins.Op = OpSKNP
		default:
			return Instruction{}, unknownInstruction(opcode)
		}
	case 0xF:
		switch lo {
		case 0x07:
			ins.Op = OpLDVxDT
		case 0x0A:
			ins.Op = OpLDVxK
		case 0x15:
			ins.Op = OpLDDTVx
		case 0x18:
			ins.Op = OpLDSTVx
		case 0x1E:
			ins.Op = OpADDI
		case 0x29:
			ins.Op = OpLDF
		case 0x33:
			ins.Op = OpLDB
		case 0x55:
			ins.Op = OpLDIVx
		case 0x65:
			ins.Op = OpLDVxI
		default:
			return Instruction{}, unknownInstruction(opcode)
		}
	}
	return ins, nil
}
