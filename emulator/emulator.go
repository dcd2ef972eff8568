// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/cpu"
	"github.com/ezrec/cyclesim/memory"
)

const (
	DEFAULT_INTERVAL = 1000 * time.Millisecond // Cadence of a continuous run.
)

// DefaultProgram is loaded by NewEmulator.
const DefaultProgram = `LOD 14 ; Load data from addr 14
ADD 15 ; Add data from addr 15
STO 13 ; Store result in addr 13
HLT    ; Stop`

var _emulator_defines = map[string]string{
	"RESULT": fmt.Sprintf("%v", cpu.DATA_START),
}

// Emulator is a single simulation session: memory, CPU, the loaded
// program and an optional continuous run.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.
	Strict  bool // If set, assembly fails on the first bad line.

	Memory  *memory.Memory // Session memory.
	Cpu     *cpu.Cpu       // Reference to the CPU simulation.
	Program *cpu.Program   // Reference to the currently loaded program listing.

	// OnStep, if set, is called after every step of a continuous run,
	// outside of the session lock.
	OnStep func(snap Snapshot, err error)

	interval time.Duration
	message  string

	mutex  sync.Mutex
	runner *runner // Active run, nil once cancelled.
	last   *runner // Most recent run, kept for Wait.
}

// NewEmulator creates a new session with the default program loaded.
func NewEmulator() (emu *Emulator) {
	mem := memory.New(cpu.MEMORY_SIZE, cpu.WORD_BITS)

	emu = &Emulator{
		Memory:   mem,
		Cpu:      cpu.NewCpu(mem),
		Program:  &cpu.Program{},
		interval: DEFAULT_INTERVAL,
		message:  f("Ready to assemble."),
	}

	// The default program always assembles.
	_, _ = emu.Assemble(DefaultProgram)

	return
}

// Defines returns an iterator over all of the defines visible to the
// session's programs.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return emu.assembler().Defines()
}

func (emu *Emulator) assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{
		Verbose:   emu.Verbose,
		Strict:    emu.Strict,
		Size:      emu.Memory.Size(),
		Width:     emu.Memory.Width(),
		DataStart: cpu.DATA_START,
	}

	for key, value := range _emulator_defines {
		asm.Predefine(key, value)
	}

	return
}

// Assemble cancels any active run, assembles source and loads it into
// memory, then resets the CPU.
//
// In strict mode a bad line fails the assembly and leaves the previous
// program loaded.
func (emu *Emulator) Assemble(source string) (snap Snapshot, err error) {
	emu.Cancel()

	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	prog, err := emu.assembler().Parse(strings.NewReader(source))
	if err == nil {
		err = prog.Load(emu.Memory)
	}
	if err != nil {
		emu.message = err.Error()
		snap = emu.snapshot()
		return
	}

	emu.Program = prog
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.message = f("Program assembled and loaded to memory.")

	if emu.Verbose {
		log.WithFields(log.Fields{
			"opcodes": len(prog.Opcodes),
			"skipped": len(prog.Skipped),
		}).Printf("emulator: assembled")
	}

	snap = emu.snapshot()
	return
}

// Reset cancels any active run and resets the CPU without reassembling.
func (emu *Emulator) Reset() (snap Snapshot) {
	emu.Cancel()

	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.Cpu.Reset()
	emu.message = f("CPU reset.")

	snap = emu.snapshot()
	return
}

// Snapshot returns the current session state.
func (emu *Emulator) Snapshot() Snapshot {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.snapshot()
}

// Message returns the last status message.
func (emu *Emulator) Message() string {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.message
}

// LineNo returns the source line of the instruction at addr, or 0.
func (emu *Emulator) LineNo(addr int) int {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.lineNo(addr)
}

// lineNo is LineNo. The caller holds the lock.
func (emu *Emulator) lineNo(addr int) int {
	op := emu.Program.Debug(addr)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// currentAddr is the address of the instruction in flight: the one at
// PC before a fetch, the one just fetched otherwise.
func (emu *Emulator) currentAddr() int {
	size := emu.Memory.Size()
	if emu.Cpu.Phase == cpu.PHASE_FETCH || size == 0 {
		return emu.Cpu.Pc
	}

	return (emu.Cpu.Pc + size - 1) % size
}

// step performs a single step of the CPU. The caller holds the lock.
func (emu *Emulator) step() (snap Snapshot, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.lineNo(emu.currentAddr())

	err = emu.Cpu.Step()
	switch {
	case errors.Is(err, cpu.ErrAlreadyHalted):
		emu.message = f("Program Halted.")
	case err != nil:
		err = &ErrRuntime{LineNo: lineno, Err: err}
		emu.message = err.Error()
	case emu.Cpu.Halted():
		emu.message = f("Program Halted.")
	default:
		emu.message = f("%v", emu.Cpu.Phase)
	}

	snap = emu.snapshot()
	return
}

// Listing returns one line per memory word: address, contents, the
// disassembly and the source line that produced it.
func (emu *Emulator) Listing() (lines []string) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	digits := int(emu.Memory.Width()+3) / 4
	for addr, word := range emu.Memory.All() {
		code := cpu.Code{Word: word, Width: emu.Memory.Width()}

		var text string
		switch op := emu.Program.Debug(addr); {
		case op != nil:
			text = fmt.Sprintf("%-8v ; %d: %s", code, op.LineNo, strings.Join(op.Words, " "))
		case addr >= emu.Program.DataStart && emu.Program.Size > 0:
			text = fmt.Sprintf(".data %d", word)
		default:
			text = code.String()
		}

		mark := " "
		if addr == emu.Cpu.Pc {
			mark = ">"
		}

		lines = append(lines, fmt.Sprintf("%s%02X: %0*X  %s", mark, addr, digits, word, text))
	}

	return
}
