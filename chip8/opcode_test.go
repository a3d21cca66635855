package chip8

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode   uint16
		op       Op
		operands []uint16
	}{
		{0x00E0, OpCLS, nil},
		{0x00EE, OpRET, nil},
		{0x01E0, OpCLS, nil},
		{0x05EE, OpRET, nil},
		{0x1ABC, OpJP, []uint16{0xABC}},
		{0x2ABC, OpCALL, []uint16{0xABC}},
		{0x3A12, OpSEByte, []uint16{0xA, 0x12}},
		{0x4A12, OpSNEByte, []uint16{0xA, 0x12}},
		{0x5AB0, OpSEReg, []uint16{0xA, 0xB}},
		{0x6A12, OpLDByte, []uint16{0xA, 0x12}},
		{0x7A12, OpADDByte, []uint16{0xA, 0x12}},
		{0x8AB0, OpLDReg, []uint16{0xA, 0xB}},
		{0x8AB1, OpOR, []uint16{0xA, 0xB}},
		{0x8AB2, OpAND, []uint16{0xA, 0xB}},
		{0x8AB3, OpXOR, []uint16{0xA, 0xB}},
		{0x8AB4, OpADDReg, []uint16{0xA, 0xB}},
		{0x8AB5, OpSUB, []uint16{0xA, 0xB}},
		{0x8AB6, OpSHR, []uint16{0xA, 0xB}},
		{0x8AB7, OpSUBN, []uint16{0xA, 0xB}},
		{0x8ABE, OpSHL, []uint16{0xA, 0xB}},
		{0x9AB0, OpSNEReg, []uint16{0xA, 0xB}},
		{0xA123, OpLDI, []uint16{0x123}},
		{0xB123, OpJPV0, []uint16{0x123}},
		{0xCA0F, OpRND, []uint16{0xA, 0x0F}},
		{0xDAB6, OpDRW, []uint16{0xA, 0xB, 0x6}},
		{0xEA9E, OpSKP, []uint16{0xA}},
		{0xEAA1, OpSKNP, []uint16{0xA}},
		{0xFA07, OpLDVxDT, []uint16{0xA}},
		{0xFA0A, OpLDVxK, []uint16{0xA}},
		{0xFA15, OpLDDTVx, []uint16{0xA}},
		{0xFA18, OpLDSTVx, []uint16{0xA}},
		{0xFA1E, OpADDI, []uint16{0xA}},
		{0xFA29, OpLDF, []uint16{0xA}},
		{0xFA33, OpLDB, []uint16{0xA}},
		{0xFA55, OpLDIVx, []uint16{0xA}},
		{0xFA65, OpLDVxI, []uint16{0xA}},
	}
	for _, tt := range tests {
		t.Run(Disassemble(tt.opcode), func(t *testing.T) {
			ins, err := Decode(byte(tt.opcode>>8), byte(tt.opcode))
			assert.NoError(t, err)
			assert.Equal(t, tt.op, ins.Op)
			assert.Equal(t, tt.opcode, ins.Opcode)
			if diff := cmp.Diff(tt.operands, ins.Operands()); diff != "" {
				t.Errorf("Operands() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, opcode := range []uint16{
		0x0000, 0x0123, 0x00E1, 0x00FF,
		0x5AB1, 0x5ABF,
		0x8AB8, 0x8ABD, 0x8ABF,
		0x9AB1,
		0xEA00, 0xEA9F,
		0xFA00, 0xFA08, 0xFA66, 0xFAFF,
	} {
		_, err := Decode(byte(opcode>>8), byte(opcode))
		if !errors.Is(err, ErrUnknownInstruction) {
			t.Errorf("Decode(0x%04x): got=%v, want %v", opcode, err, ErrUnknownInstruction)
		}
	}
}

// Every word either decodes or fails with ErrUnknownInstruction.
func TestDecodeTotal(t *testing.T) {
	known := 0
	for w := 0; w <= 0xFFFF; w++ {
		ins, err := Decode(byte(w>>8), byte(w))
		if err != nil {
			if !errors.Is(err, ErrUnknownInstruction) {
				t.Fatalf("Decode(0x%04x): unexpected error %v", w, err)
			}
			continue
		}
		known++
		if ins.Opcode != uint16(w) {
			t.Fatalf("Decode(0x%04x): opcode=0x%04x", w, ins.Opcode)
		}
	}
	// 0x1-0x4, 0x6, 0x7, 0xA-0xD are full families.
	want := 10*0x1000 +
		2*0x10 + // 0_E0, 0_EE
		2*0x100 + // 5xy0, 9xy0
		9*0x100 + // 8xy_
		2*0x10 + // Ex9E, ExA1
		9*0x10 // Fx__
	assert.Equal(t, want, known)
}

func TestInstructionFields(t *testing.T) {
	ins, err := Decode(0xD1, 0x2F)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x1), ins.X)
	assert.Equal(t, byte(0x2), ins.Y)
	assert.Equal(t, byte(0xF), ins.N)
	assert.Equal(t, byte(0x2F), ins.NN)
	assert.Equal(t, uint16(0x12F), ins.NNN)
	assert.Equal(t, "D12F DRW", ins.String())
}
