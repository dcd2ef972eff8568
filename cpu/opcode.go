package cpu

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ezrec/cyclesim/bitfield"
	"github.com/ezrec/cyclesim/memory"
)

// CodeOp is an opcode of the toy machine.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_HLT = CodeOp(0) // HLT
	OP_LOD = CodeOp(1) // LOD
	OP_ADD = CodeOp(2) // ADD
	OP_SUB = CodeOp(3) // SUB
	OP_STO = CodeOp(4) // STO
	OP_JMP = CodeOp(5) // JMP
	OP_JZ  = CodeOp(6) // JZ
)

// Ops iterates over the instruction set in opcode order.
func Ops() iter.Seq[CodeOp] {
	return func(yield func(op CodeOp) bool) {
		for op := OP_HLT; op <= OP_JZ; op++ {
			if !yield(op) {
				return
			}
		}
	}
}

// ParseOp looks up a mnemonic, ignoring case. Both the short and the
// long spelling of each mnemonic are accepted.
func ParseOp(mnemonic string) (op CodeOp, ok bool) {
	ok = true

	switch strings.ToUpper(mnemonic) {
	case "HLT", "HALT":
		op = OP_HLT
	case "LOD", "LOAD":
		op = OP_LOD
	case "ADD":
		op = OP_ADD
	case "SUB":
		op = OP_SUB
	case "STO", "STORE":
		op = OP_STO
	case "JMP", "JUMP":
		op = OP_JMP
	case "JZ", "JUMP_IF_ZERO":
		op = OP_JZ
	default:
		ok = false
	}

	return
}

// Valid returns true if op is part of the instruction set.
func (op CodeOp) Valid() bool {
	return op >= OP_HLT && op <= OP_JZ
}

// Description returns the semantics of the opcode.
func (op CodeOp) Description() string {
	switch op {
	case OP_HLT:
		return f("Halt Execution")
	case OP_LOD:
		return f("Load Memory[addr] to AC")
	case OP_ADD:
		return f("AC = AC + Memory[addr]")
	case OP_SUB:
		return f("AC = AC - Memory[addr]")
	case OP_STO:
		return f("Store AC to Memory[addr]")
	case OP_JMP:
		return f("Jump to Address")
	case OP_JZ:
		return f("Jump if AC == 0")
	}

	return f("Invalid")
}

// Code is a single instruction word of a given width.
type Code struct {
	Word  memory.Word
	Width uint
}

// MakeCode encodes an opcode and operand into a width-bit word. The
// operand is masked to the bits below the opcode.
func MakeCode(op CodeOp, operand uint32, width uint) Code {
	word := bitfield.Compose(width,
		bitfield.Field{Name: "opcode", Value: uint32(op), Width: OPCODE_BITS},
		bitfield.Field{Name: "operand", Value: operand, Width: operandBits(width)},
	)
	return Code{Word: memory.Word(word), Width: width}
}

// makeCodeStrict is MakeCode, failing if the operand does not fit.
func makeCodeStrict(op CodeOp, operand uint32, width uint) (code Code, err error) {
	word, err := bitfield.ComposeStrict(width,
		bitfield.Field{Name: "opcode", Value: uint32(op), Width: OPCODE_BITS},
		bitfield.Field{Name: "operand", Value: operand, Width: operandBits(width)},
	)
	if err != nil {
		return
	}

	code = Code{Word: memory.Word(word), Width: width}
	return
}

func operandBits(width uint) uint {
	if width <= OPCODE_BITS {
		return 0
	}
	return width - OPCODE_BITS
}

// Op returns the opcode field from the top bits of the word.
func (code Code) Op() CodeOp {
	if code.Width == 0 {
		return OP_HLT
	}
	low := code.Width - min(code.Width, OPCODE_BITS)
	return CodeOp(bitfield.Extract(uint32(code.Word), code.Width-1, low))
}

// Operand returns the operand field below the opcode.
func (code Code) Operand() uint32 {
	bits := operandBits(code.Width)
	if bits == 0 {
		return 0
	}
	return bitfield.Extract(uint32(code.Word), bits-1, 0)
}

// Decode returns both fields of the instruction.
func (code Code) Decode() (op CodeOp, operand uint32) {
	return code.Op(), code.Operand()
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	op, operand := code.Decode()
	if !op.Valid() {
		return fmt.Sprintf("??? %d", operand)
	}
	if op == OP_HLT {
		return op.String()
	}
	return fmt.Sprintf("%v %d", op, operand)
}

// Phase is the step of the instruction cycle the CPU will perform next.
type Phase int

//go:generate go tool stringer -linecomment -type=Phase
const (
	PHASE_FETCH   = Phase(0) // FETCH
	PHASE_DECODE  = Phase(1) // DECODE
	PHASE_EXECUTE = Phase(2) // EXECUTE
	PHASE_HALTED  = Phase(3) // HALTED
)

// MarshalText renders the phase by name.
func (ph Phase) MarshalText() ([]byte, error) {
	return []byte(ph.String()), nil
}
