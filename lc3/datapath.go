package lc3

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/memory"
)

const (
	MEMORY_SIZE = 1 << 16 // Words of LC-3 memory.
	PC_START    = 0x3000  // Program counter after reset.
	REGISTERS   = 8       // General purpose registers R0..R7.
)

// Phase is the next micro-step of the datapath.
type Phase int

//go:generate go tool stringer -linecomment -type=Phase
const (
	PHASE_RESET   = Phase(0) // RESET
	PHASE_FETCH_1 = Phase(1) // FETCH_1
	PHASE_FETCH_2 = Phase(2) // FETCH_2
	PHASE_DECODE  = Phase(3) // DECODE
	PHASE_EXECUTE = Phase(4) // EXECUTE
)

// Description returns what the datapath does in the phase.
func (ph Phase) Description() string {
	switch ph {
	case PHASE_RESET:
		return f("Ready for next cycle.")
	case PHASE_FETCH_1:
		return f("FETCH: The address in PC is loaded into the MAR. PC increments.")
	case PHASE_FETCH_2:
		return f("FETCH: The Memory reads address in MAR and puts data into MDR.")
	case PHASE_DECODE:
		return f("DECODE: The instruction in MDR is moved to the IR for decoding.")
	case PHASE_EXECUTE:
		return f("EXECUTE: The Control Unit processes the instruction in IR.")
	}

	return ph.String()
}

// Cond is a condition code flag.
type Cond uint8

//go:generate go tool stringer -linecomment -type=Cond
const (
	COND_P = Cond(1 << 0) // P
	COND_Z = Cond(1 << 1) // Z
	COND_N = Cond(1 << 2) // N
)

// Datapath walks the LC-3 instruction cycle one register transfer at a
// time.
type Datapath struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // 16-bit wide memory.

	Register [REGISTERS]uint16 // R0..R7
	Pc       uint16            // Program counter.
	Ir       uint16            // Instruction register.
	Mar      uint16            // Memory address register.
	Mdr      uint16            // Memory data register.
	Cond     Cond              // NZP condition codes.
	Phase    Phase             // Next micro-step.

	Cycles int // Instructions completed since reset.
}

// NewDatapath attaches a datapath to mem, or to a new full size memory
// if mem is nil.
func NewDatapath(mem *memory.Memory) (dp *Datapath) {
	if mem == nil {
		mem = memory.New(MEMORY_SIZE, WORD_BITS)
	}

	dp = &Datapath{
		Memory: mem,
	}
	dp.Reset()

	return
}

// Reset clears the registers and sets PC to PC_START. Memory is left
// untouched.
func (dp *Datapath) Reset() {
	dp.Register = [REGISTERS]uint16{}
	dp.Pc = PC_START
	dp.Ir = 0
	dp.Mar = 0
	dp.Mdr = 0
	dp.Cond = COND_Z
	dp.Phase = PHASE_RESET
	dp.Cycles = 0
}

// Load writes words into memory starting at origin.
func (dp *Datapath) Load(origin uint16, words ...uint16) (err error) {
	for n, word := range words {
		err = dp.Memory.Write(int(origin)+n, uint32(word))
		if err != nil {
			err = errors.Join(ErrMemory, err)
			return
		}
	}

	return
}

// Instruction returns the decoded instruction register.
func (dp *Datapath) Instruction() Instruction {
	return Decode(dp.Ir)
}

// setCond sets exactly one condition code from the sign of value.
func (dp *Datapath) setCond(value uint16) {
	switch {
	case value == 0:
		dp.Cond = COND_Z
	case value&0x8000 != 0:
		dp.Cond = COND_N
	default:
		dp.Cond = COND_P
	}
}

// Step advances the datapath by one phase. A failed memory read leaves
// the datapath in the same phase.
func (dp *Datapath) Step() (err error) {
	if dp.Verbose {
		log.WithFields(log.Fields{
			"phase": dp.Phase.String(),
			"pc":    fmt.Sprintf("x%04X", dp.Pc),
			"ir":    fmt.Sprintf("x%04X", dp.Ir),
		}).Printf("lc3: step")
	}

	switch dp.Phase {
	case PHASE_RESET:
		dp.Phase = PHASE_FETCH_1
	case PHASE_FETCH_1:
		dp.Mar = dp.Pc
		dp.Pc++
		dp.Phase = PHASE_FETCH_2
	case PHASE_FETCH_2:
		var word memory.Word
		word, err = dp.Memory.Read(int(dp.Mar))
		if err != nil {
			err = errors.Join(ErrMemory, err)
			return
		}
		dp.Mdr = uint16(word)
		dp.Phase = PHASE_DECODE
	case PHASE_DECODE:
		dp.Ir = dp.Mdr
		dp.Phase = PHASE_EXECUTE
	case PHASE_EXECUTE:
		dp.Execute(dp.Instruction())
		dp.Phase = PHASE_RESET
		dp.Cycles++
	}

	return
}

// Cycle steps until one instruction has completed.
func (dp *Datapath) Cycle() (err error) {
	for {
		phase := dp.Phase
		err = dp.Step()
		if err != nil || phase == PHASE_EXECUTE {
			return
		}
	}
}

// Execute performs an operate instruction. Other opcodes have no effect.
func (dp *Datapath) Execute(inst Instruction) {
	if dp.Verbose {
		log.Printf("lc3: x%04X: %v", dp.Pc-1, inst)
	}

	sr1 := dp.Register[inst.SR1]

	var operand uint16
	if inst.Mode {
		operand = uint16(inst.Imm5)
	} else {
		operand = dp.Register[inst.SR2]
	}

	var result uint16
	switch inst.Opcode {
	case OP_ADD:
		result = sr1 + operand
	case OP_AND:
		result = sr1 & operand
	case OP_NOT:
		result = ^sr1
	default:
		return
	}

	dp.Register[inst.DR] = result
	dp.setCond(result)
}

// String returns the datapath registers as a string.
func (dp *Datapath) String() (text string) {
	text += fmt.Sprintf("% 5s: %v\n", "phase", dp.Phase)
	text += fmt.Sprintf("% 5s: x%04X\n", "pc", dp.Pc)
	text += fmt.Sprintf("% 5s: x%04X %v\n", "ir", dp.Ir, dp.Instruction())
	text += fmt.Sprintf("% 5s: x%04X\n", "mar", dp.Mar)
	text += fmt.Sprintf("% 5s: x%04X\n", "mdr", dp.Mdr)
	text += fmt.Sprintf("% 5s: %v\n", "cc", dp.Cond)
	for n, reg := range dp.Register {
		text += fmt.Sprintf("% 5s: x%04X\n", fmt.Sprintf("r%d", n), reg)
	}
	return
}
