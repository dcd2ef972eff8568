package lc3

// Opcode is the top nibble of an LC-3 instruction word.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_BR   = Opcode(0)  // BR
	OP_ADD  = Opcode(1)  // ADD
	OP_LD   = Opcode(2)  // LD
	OP_ST   = Opcode(3)  // ST
	OP_JSR  = Opcode(4)  // JSR
	OP_AND  = Opcode(5)  // AND
	OP_LDR  = Opcode(6)  // LDR
	OP_STR  = Opcode(7)  // STR
	OP_RTI  = Opcode(8)  // RTI
	OP_NOT  = Opcode(9)  // NOT
	OP_LDI  = Opcode(10) // LDI
	OP_STI  = Opcode(11) // STI
	OP_JMP  = Opcode(12) // JMP
	OP_RES  = Opcode(13) // RES
	OP_LEA  = Opcode(14) // LEA
	OP_TRAP = Opcode(15) // TRAP
)

// Category groups opcodes by what they do.
type Category int

//go:generate go tool stringer -linecomment -type=Category
const (
	CATEGORY_OPERATE       = Category(0) // Operate
	CATEGORY_DATA_MOVEMENT = Category(1) // Data Movement
	CATEGORY_CONTROL       = Category(2) // Control
	CATEGORY_SYSTEM        = Category(3) // System
	CATEGORY_RESERVED      = Category(4) // Reserved
)

// Category returns the instruction class of the opcode.
func (op Opcode) Category() Category {
	switch op {
	case OP_ADD, OP_AND, OP_NOT:
		return CATEGORY_OPERATE
	case OP_LD, OP_LDI, OP_LDR, OP_LEA, OP_ST, OP_STI, OP_STR:
		return CATEGORY_DATA_MOVEMENT
	case OP_BR, OP_JMP, OP_JSR, OP_RTI:
		return CATEGORY_CONTROL
	case OP_TRAP:
		return CATEGORY_SYSTEM
	}

	return CATEGORY_RESERVED
}
