package cpu

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/bitfield"
	"github.com/ezrec/cyclesim/memory"
)

// Cpu is the simulation context for the toy accumulator machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Memory the CPU fetches from and stores to.

	Pc    int         // Program counter.
	Ir    memory.Word // Instruction register.
	Ac    memory.Word // Accumulator.
	Phase Phase       // Next step of the instruction cycle.

	Ticks  int // Steps taken since reset.
	Cycles int // Instructions completed since reset.
}

// State is a copy of the CPU and memory, taken between steps.
type State struct {
	Pc       int           `json:"pc"`
	Ac       memory.Word   `json:"ac"`
	AcSigned int32         `json:"ac_signed"`
	Ir       memory.Word   `json:"ir"`
	Op       string        `json:"op"`
	Operand  uint32        `json:"operand"`
	Phase    Phase         `json:"phase"`
	Ticks    int           `json:"ticks"`
	Cycles   int           `json:"cycles"`
	Memory   []memory.Word `json:"memory"`
}

// NewCpu creates a new CPU attached to mem, in its reset state.
func NewCpu(mem *memory.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	cpu.Reset()

	return
}

// Reset the CPU state. Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Pc = 0
	cpu.Ir = 0
	cpu.Ac = 0
	cpu.Phase = PHASE_FETCH
	cpu.Ticks = 0
	cpu.Cycles = 0
}

// Halted returns true once the CPU has stopped.
func (cpu *Cpu) Halted() bool {
	return cpu.Phase == PHASE_HALTED
}

// Code returns the instruction register as an instruction.
func (cpu *Cpu) Code() Code {
	return Code{Word: cpu.Ir, Width: cpu.Memory.Width()}
}

// Signed returns the accumulator as a two's-complement value.
func (cpu *Cpu) Signed() int32 {
	return bitfield.SignExtend(uint32(cpu.Ac), cpu.Memory.Width())
}

// State returns a snapshot of the CPU and its memory.
func (cpu *Cpu) State() State {
	code := cpu.Code()
	return State{
		Pc:       cpu.Pc,
		Ac:       cpu.Ac,
		AcSigned: cpu.Signed(),
		Ir:       cpu.Ir,
		Op:       code.Op().String(),
		Operand:  code.Operand(),
		Phase:    cpu.Phase,
		Ticks:    cpu.Ticks,
		Cycles:   cpu.Cycles,
		Memory:   cpu.Memory.Image(),
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	digits := int(cpu.Memory.Width()+3) / 4
	text += fmt.Sprintf("% 5s: %v\n", "phase", cpu.Phase)
	text += fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %0*X %v\n", "ir", digits, cpu.Ir, cpu.Code())
	text += fmt.Sprintf("% 5s: %0*X (%d)\n", "ac", digits, cpu.Ac, cpu.Signed())
	return
}

// halt stops the CPU after a failed step.
func (cpu *Cpu) halt() {
	cpu.Phase = PHASE_HALTED
}

// Step advances the CPU by one phase.
//
// Stepping a halted CPU changes nothing and returns ErrAlreadyHalted.
// Any other error also leaves the CPU halted.
func (cpu *Cpu) Step() (err error) {
	if cpu.Phase == PHASE_HALTED {
		err = ErrAlreadyHalted
		return
	}

	if cpu.Verbose {
		log.WithFields(log.Fields{
			"phase": cpu.Phase.String(),
			"pc":    cpu.Pc,
			"ir":    fmt.Sprintf("%#02x", uint16(cpu.Ir)),
			"ac":    cpu.Signed(),
		}).Printf("cpu: step")
	}

	cpu.Ticks++

	switch cpu.Phase {
	case PHASE_FETCH:
		err = cpu.Fetch()
	case PHASE_DECODE:
		// Nothing to latch; the decoded fields are visible from the IR.
		cpu.Phase = PHASE_EXECUTE
	case PHASE_EXECUTE:
		err = cpu.Execute(cpu.Code())
	default:
		cpu.halt()
		err = fmt.Errorf("%w: phase %v", ErrOpcodeInvalid, cpu.Phase)
	}

	return
}

// Fetch loads the instruction at PC into IR and advances PC, wrapping at
// the top of memory. A halted CPU returns ErrAlreadyHalted.
func (cpu *Cpu) Fetch() (err error) {
	if cpu.Phase == PHASE_HALTED {
		err = ErrAlreadyHalted
		return
	}

	word, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		cpu.halt()
		err = errors.Join(ErrFetch, err)
		return
	}

	cpu.Ir = word
	cpu.Pc = (cpu.Pc + 1) % cpu.Memory.Size()
	cpu.Phase = PHASE_DECODE

	return
}

// Execute executes a single decoded instruction. A halted CPU returns
// ErrAlreadyHalted.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Phase == PHASE_HALTED {
		err = ErrAlreadyHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.halt()
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	mem := cpu.Memory
	mask := mem.Mask()
	op, operand := code.Decode()
	addr := int(operand)

	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
	}

	next := PHASE_FETCH

	switch op {
	case OP_HLT:
		next = PHASE_HALTED
	case OP_LOD:
		var value memory.Word
		value, err = mem.Read(addr)
		if err != nil {
			err = errors.Join(ErrOperand, err)
			return
		}
		cpu.Ac = value
	case OP_ADD:
		var value memory.Word
		value, err = mem.Read(addr)
		if err != nil {
			err = errors.Join(ErrOperand, err)
			return
		}
		cpu.Ac = memory.Word((uint32(cpu.Ac) + uint32(value)) & mask)
	case OP_SUB:
		var value memory.Word
		value, err = mem.Read(addr)
		if err != nil {
			err = errors.Join(ErrOperand, err)
			return
		}
		cpu.Ac = memory.Word((uint32(cpu.Ac) - uint32(value)) & mask)
	case OP_STO:
		err = mem.Write(addr, uint32(cpu.Ac))
		if err != nil {
			err = errors.Join(ErrOperand, err)
			return
		}
	case OP_JMP:
		cpu.Pc = addr % mem.Size()
	case OP_JZ:
		if cpu.Ac == 0 {
			cpu.Pc = addr % mem.Size()
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	cpu.Phase = next
	cpu.Cycles++

	if cpu.Verbose && next == PHASE_HALTED {
		log.Printf("cpu: halted after %d instructions", cpu.Cycles)
	}

	return
}
