// Package cpu implements the toy accumulator machine and its assembler.
//
// The CPU has a program counter (PC), an instruction register (IR), and a
// single accumulator (AC). Each instruction takes three steps through the
// FETCH, DECODE and EXECUTE phases; HLT or an invalid opcode leaves the
// machine in the HALTED phase.
//
// Instruction words are 8 bits wide by default: the opcode in the top four
// bits and a memory address operand in the remaining bits.
//
// The assembler is deliberately lenient: comments, blank lines, unknown
// mnemonics and bad operands never stop an assembly unless Strict is set.
package cpu
