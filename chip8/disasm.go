package chip8

import (
	"fmt"
	"strings"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// mnemonic looks the opcode up in the retrogolib CHIP-8 opcode table.
func mnemonic(opcode uint16) (string, bool) {
	for _, op := range chip8cpu.Opcodes[int(opcode>>12)] {
		if op.Instruction == nil {
			continue
		}
		if op.Info.Mask&opcode == op.Info.Value {
			return strings.ToUpper(op.Instruction.Name), true
		}
	}
	return "", false
}

// Disassemble renders an opcode as assembly text, e.g. "DRW VA, VB, $6".
// Words that do not decode are rendered as data.
func Disassemble(opcode uint16) string {
	ins, err := Decode(byte(opcode>>8), byte(opcode))
	if err != nil {
		return fmt.Sprintf("DW $%04X", opcode)
	}
	name, ok := mnemonic(opcode)
	if !ok {
		name, _, _ = strings.Cut(ins.Op.String(), " ")
	}
	if params := formatOperands(ins); params != "" {
		return name + " " + params
	}
	return name
}

// formatOperands formats the operands the way assemblers expect them.
func formatOperands(ins Instruction) string {
	switch ins.Op {
	case OpCLS, OpRET:
		return ""
	case OpJP, OpCALL:
		return fmt.Sprintf("$%03X", ins.NNN)
	case OpJPV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", ins.X)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", ins.X)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", ins.X)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", ins.X)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", ins.X)
	case OpADDI:
		return fmt.Sprintf("I, V%X", ins.X)
	case OpLDF:
		return fmt.Sprintf("F, V%X", ins.X)
	case OpLDB:
		return fmt.Sprintf("B, V%X", ins.X)
	case OpLDIVx:
		return fmt.Sprintf("[I], V%X", ins.X)
	case OpLDVxI:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
