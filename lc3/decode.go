package lc3

import (
	"fmt"

	"github.com/ezrec/cyclesim/bitfield"
)

const (
	WORD_BITS = 16 // Bits per instruction word.
)

// OperateLayout is the field layout of the register/immediate operate
// instructions.
var OperateLayout = bitfield.Layout{
	{Name: "opcode", Width: 4},
	{Name: "dr", Width: 3},
	{Name: "sr1", Width: 3},
	{Name: "mode", Width: 1},
	{Name: "imm5", Width: 5},
}

// Instruction is a decoded LC-3 word.
//
// When Mode is set the low five bits are the sign extended Imm5,
// otherwise the low three bits select SR2.
type Instruction struct {
	Opcode Opcode
	DR     uint8
	SR1    uint8
	Mode   bool
	Imm5   int32
	SR2    uint8
}

// Decode splits a 16-bit word into its operate fields.
func Decode(word uint16) (inst Instruction) {
	values := OperateLayout.Decompose(uint32(word))

	inst.Opcode = Opcode(values[0])
	inst.DR = uint8(values[1])
	inst.SR1 = uint8(values[2])
	inst.Mode = values[3] == 1
	if inst.Mode {
		inst.Imm5 = bitfield.SignExtend(values[4], 5)
	} else {
		inst.SR2 = uint8(bitfield.Extract(values[4], 2, 0))
	}

	return
}

// Encode packs the instruction back into a 16-bit word.
func Encode(inst Instruction) uint16 {
	var mode, low uint32
	if inst.Mode {
		mode = 1
		low = uint32(inst.Imm5)
	} else {
		low = uint32(inst.SR2) & 0x7
	}

	word := OperateLayout.Compose([]uint32{
		uint32(inst.Opcode),
		uint32(inst.DR),
		uint32(inst.SR1),
		mode,
		low,
	})

	return uint16(word)
}

// Word returns the encoded instruction.
func (inst Instruction) Word() uint16 {
	return Encode(inst)
}

// Category returns the instruction class.
func (inst Instruction) Category() Category {
	return inst.Opcode.Category()
}

// String returns the assembly translation of the instruction. Only the
// operate instructions show their operands.
func (inst Instruction) String() string {
	switch inst.Opcode {
	case OP_ADD, OP_AND:
		if inst.Mode {
			return fmt.Sprintf("%v R%d, R%d, #%d", inst.Opcode, inst.DR, inst.SR1, inst.Imm5)
		}
		return fmt.Sprintf("%v R%d, R%d, R%d", inst.Opcode, inst.DR, inst.SR1, inst.SR2)
	case OP_NOT:
		return fmt.Sprintf("%v R%d, R%d", inst.Opcode, inst.DR, inst.SR1)
	}

	return fmt.Sprintf("%v ...", inst.Opcode)
}
