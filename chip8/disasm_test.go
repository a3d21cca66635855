package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		opcode   uint16
		name     string
		operands string
	}{
		{0x00E0, "CLS", ""},
		{0x00EE, "RET", ""},
		{0x1ABC, "JP", "$ABC"},
		{0x2ABC, "CALL", "$ABC"},
		{0xB123, "JP", "V0, $123"},
		{0xA123, "LD", "I, $123"},
		{0x3A12, "SE", "VA, $12"},
		{0x9AB0, "SNE", "VA, VB"},
		{0x8AB4, "ADD", "VA, VB"},
		{0x8A06, "SHR", "VA"},
		{0xCA0F, "RND", "VA, $0F"},
		{0xDAB6, "DRW", "VA, VB, $6"},
		{0xEA9E, "SKP", "VA"},
		{0xFA07, "LD", "VA, DT"},
		{0xFA0A, "LD", "VA, K"},
		{0xFA15, "LD", "DT, VA"},
		{0xFA18, "LD", "ST, VA"},
		{0xFA1E, "ADD", "I, VA"},
		{0xFA29, "LD", "F, VA"},
		{0xFA33, "LD", "B, VA"},
		{0xFA55, "LD", "[I], VA"},
		{0xFA65, "LD", "VA, [I]"},
	}
	for _, tt := range tests {
		got := Disassemble(tt.opcode)
		name, operands, _ := strings.Cut(got, " ")
		assert.True(t, strings.EqualFold(tt.name, name), "opcode %04X: got %q", tt.opcode, got)
		assert.Equal(t, tt.operands, operands)
	}
}

func TestDisassembleData(t *testing.T) {
	assert.Equal(t, "DW $0123", Disassemble(0x0123))
	assert.Equal(t, "DW $FA66", Disassemble(0xFA66))
}
