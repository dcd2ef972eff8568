package cpu

import (
	"iter"
	"maps"
	"slices"

	"github.com/ezrec/cyclesim/memory"
)

// Opcode represents a line of assembled code with its source location and
// generated instruction.
type Opcode struct {
	LineNo int
	Addr   int
	Words  []string
	Code   Code
}

// Program is the output of an assembly: the instructions, the data region
// and the lines that produced nothing.
type Program struct {
	Size      int            // Memory size in words.
	Width     uint           // Word width in bits.
	DataStart int            // First address of the data region.
	Data      map[int]uint32 // Pre-seeded data region.
	Opcodes   []Opcode       // Assembled instructions, in address order.
	Skipped   []ErrSyntax    // Lines dropped by a lenient assembly.
}

// Debug returns the opcode assembled at addr, or nil.
func (prog *Program) Debug(addr int) *Opcode {
	for n, op := range prog.Opcodes {
		if op.Addr == addr {
			return &prog.Opcodes[n]
		}
	}

	return nil
}

// Codes iterates over the assembled instructions by address.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(addr int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Addr, op.Code) {
				return
			}
		}
	}
}

// Image returns the full memory image: the data region first, then the
// instructions from address 0.
func (prog *Program) Image() (image []memory.Word) {
	mem := memory.New(prog.Size, prog.Width)

	for _, addr := range slices.Sorted(maps.Keys(prog.Data)) {
		if addr < prog.DataStart {
			continue
		}
		// Seeds outside of memory are dropped.
		_ = mem.Write(addr, prog.Data[addr])
	}

	for addr, code := range prog.Codes() {
		_ = mem.Write(addr, uint32(code.Word))
	}

	return mem.Image()
}

// Load replaces the contents of mem with the program image.
func (prog *Program) Load(mem *memory.Memory) (err error) {
	return mem.Load(prog.Image())
}
