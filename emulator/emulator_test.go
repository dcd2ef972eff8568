package emulator

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/cyclesim/cpu"
	"github.com/ezrec/cyclesim/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.False(emu.Running())
	assert.Equal(DEFAULT_INTERVAL, emu.Speed())
	assert.Equal("Program assembled and loaded to memory.", emu.Message())
	assert.Equal(4, len(emu.Program.Opcodes))

	snap := emu.Snapshot()
	assert.Equal(0, snap.Pc)
	assert.Equal(cpu.PHASE_FETCH, snap.Phase)
	assert.Equal(1, snap.LineNo)
	assert.Equal([]memory.Word{
		0x1e, 0x2f, 0x4d, 0x00,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 5, 3,
	}, snap.Memory)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("13", defines["RESULT"])
	assert.Equal("16", defines["MEM_SIZE"])
}

// runToHalt steps the emulator until the CPU halts.
func runToHalt(t *testing.T, emu *Emulator) (steps int, snap Snapshot) {
	for !emu.Cpu.Halted() {
		if steps > 1000 {
			t.Fatalf("emulator did not halt")
		}
		var err error
		snap, err = emu.RunStep()
		require.NoError(t, err)
		steps++
	}

	return
}

func TestEmulatorDefaultProgram(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	steps, snap := runToHalt(t, emu)
	assert.Equal(12, steps)
	assert.Equal(cpu.PHASE_HALTED, snap.Phase)
	assert.Equal(memory.Word(8), snap.Memory[13])
	assert.Equal(memory.Word(8), snap.Ac)
	assert.Equal("Program Halted.", snap.Message)

	// Stepping a halted machine changes nothing.
	snap, err := emu.RunStep()
	assert.True(errors.Is(err, cpu.ErrAlreadyHalted))
	assert.Equal(memory.Word(8), snap.Memory[13])
	assert.Equal(4, snap.Pc)

	snap = emu.Reset()
	assert.Equal(cpu.PHASE_FETCH, snap.Phase)
	assert.Equal(0, snap.Pc)
	assert.Equal(memory.Word(8), snap.Memory[13])
}

func TestEmulatorAssemble(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	snap, err := emu.Assemble("LOAD 15\nSUB 14\nSTORE RESULT\nHALT")
	assert.NoError(err)
	assert.Equal("Program assembled and loaded to memory.", snap.Message)
	assert.Equal(memory.Word(0x4d), snap.Memory[2])

	_, snap = runToHalt(t, emu)
	assert.Equal(int32(-2), snap.AcSigned)
	assert.Equal(memory.Word(0xfe), snap.Memory[13])

	// Reassembly replaces the whole image and resets the CPU.
	snap, err = emu.Assemble("HLT")
	assert.NoError(err)
	assert.Equal(cpu.PHASE_FETCH, snap.Phase)
	assert.Equal(memory.Word(0), snap.Memory[1])
	assert.Equal(memory.Word(0), snap.Memory[13])
	assert.Equal(memory.Word(5), snap.Memory[14])
}

func TestEmulatorStrict(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Strict = true

	snap, err := emu.Assemble("LOD 14\nFROB 1")
	assert.True(errors.Is(err, cpu.ErrInstructionInvalid))
	assert.Equal(err.Error(), snap.Message)

	// The previous program is untouched.
	assert.Equal(memory.Word(0x2f), snap.Memory[1])
	assert.Equal(4, len(emu.Program.Opcodes))
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.Assemble("LOD 14")
	assert.NoError(err)

	// Plant an invalid opcode after the load.
	assert.NoError(emu.Memory.Write(1, 0xf0))

	var snap Snapshot
	for range 6 {
		snap, err = emu.RunStep()
	}

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(0, runtime.LineNo)
	}
	assert.True(errors.Is(err, cpu.ErrOpcodeInvalid))
	assert.Equal(cpu.PHASE_HALTED, snap.Phase)
	assert.Equal(err.Error(), snap.Message)
}

func TestEmulatorListing(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	lines := emu.Listing()

	assert.Equal(cpu.MEMORY_SIZE, len(lines))
	assert.Equal(">00: 1E  LOD 14   ; 1: LOD 14", lines[0])
	assert.Equal(" 03: 00  HLT      ; 4: HLT", lines[3])
	assert.Equal(" 04: 00  HLT", lines[4])
	assert.Equal(" 0E: 05  .data 5", lines[14])
}

func TestEmulatorSnapshotJSON(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.RunStep()
	assert.NoError(err)

	data, err := emu.Snapshot().JSON()
	assert.NoError(err)

	var doc map[string]any
	assert.NoError(json.Unmarshal(data, &doc))
	assert.Equal("DECODE", doc["phase"])
	assert.Equal(float64(1), doc["pc"])
	assert.Equal(float64(0x1e), doc["ir"])
	assert.Equal("LOD", doc["op"])
	assert.Equal(float64(14), doc["operand"])
	assert.Equal(false, doc["running"])
	assert.Len(doc["memory"], cpu.MEMORY_SIZE)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	var mutex sync.Mutex
	var snaps []Snapshot
	emu.OnStep = func(snap Snapshot, err error) {
		assert.NoError(err)
		mutex.Lock()
		snaps = append(snaps, snap)
		mutex.Unlock()
	}

	assert.NoError(emu.RunContinuous(time.Millisecond))
	emu.Wait()

	assert.False(emu.Running())
	assert.True(emu.Cpu.Halted())

	mutex.Lock()
	defer mutex.Unlock()
	assert.Equal(12, len(snaps))
	last := snaps[len(snaps)-1]
	assert.Equal(cpu.PHASE_HALTED, last.Phase)
	assert.False(last.Running)
	assert.Equal(memory.Word(8), last.Memory[13])

	// A halted machine does not start a new run.
	err := emu.RunContinuous(time.Millisecond)
	assert.True(errors.Is(err, cpu.ErrAlreadyHalted))
	assert.False(emu.Running())
}

func TestEmulatorCancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.Assemble("JMP 0")
	assert.NoError(err)

	var mutex sync.Mutex
	steps := 0
	emu.OnStep = func(snap Snapshot, err error) {
		mutex.Lock()
		steps++
		if steps == 10 {
			emu.Cancel()
		}
		mutex.Unlock()
	}

	assert.NoError(emu.RunContinuous(time.Millisecond))
	assert.True(emu.Running())
	assert.Eventually(func() bool { return !emu.Running() }, 5*time.Second, time.Millisecond)

	mutex.Lock()
	assert.Equal(10, steps)
	mutex.Unlock()

	// No step happens once Cancel has returned.
	ticks := emu.Snapshot().Ticks
	time.Sleep(20 * time.Millisecond)
	assert.Equal(ticks, emu.Snapshot().Ticks)
	assert.False(emu.Cpu.Halted())
}

func TestEmulatorCancelWait(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.Assemble("JMP 0")
	assert.NoError(err)

	started := make(chan struct{})
	var once sync.Once
	var mutex sync.Mutex
	finished := false
	emu.OnStep = func(snap Snapshot, err error) {
		first := false
		once.Do(func() { first = true })
		if !first {
			return
		}
		close(started)
		time.Sleep(200 * time.Millisecond)
		mutex.Lock()
		finished = true
		mutex.Unlock()
	}

	assert.NoError(emu.RunContinuous(time.Millisecond))
	<-started

	emu.Cancel()
	emu.Wait()

	mutex.Lock()
	assert.True(finished)
	mutex.Unlock()
	assert.False(emu.Running())

	// Waiting again, or with no run ever started, returns at once.
	emu.Wait()
	NewEmulator().Wait()
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.Equal(1, emu.LineNo(0))
	assert.Equal(4, emu.LineNo(3))
	assert.Equal(0, emu.LineNo(10))

	// Lookups are safe while the program is being replaced.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			_, _ = emu.Assemble("LOD 14\nHLT")
		}
	}()
	for range 50 {
		_ = emu.LineNo(1)
	}
	<-done

	assert.Equal(2, emu.LineNo(1))
	assert.Equal(0, emu.LineNo(2))
}

func TestEmulatorReplace(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.Assemble("JMP 0")
	assert.NoError(err)

	assert.NoError(emu.RunContinuous(time.Hour))
	first := emu.runner

	assert.NoError(emu.RunContinuous(time.Millisecond))
	assert.NotSame(first, emu.runner)
	<-first.done

	assert.Eventually(func() bool { return emu.Snapshot().Ticks > 5 }, 5*time.Second, time.Millisecond)
	assert.Equal(time.Millisecond, emu.Speed())

	// Reassembly cancels the run before loading.
	snap, err := emu.Assemble("HLT")
	assert.NoError(err)
	assert.False(snap.Running)
	assert.False(emu.Running())
	assert.Equal(0, snap.Ticks)
	assert.Equal(0, emu.Snapshot().Ticks)
}

func TestEmulatorSetSpeed(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := emu.Assemble("JMP 0")
	assert.NoError(err)

	assert.NoError(emu.RunContinuous(time.Hour))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(0, emu.Snapshot().Ticks)

	emu.SetSpeed(time.Millisecond)
	assert.Equal(time.Millisecond, emu.Speed())
	assert.Eventually(func() bool { return emu.Snapshot().Ticks > 5 }, 5*time.Second, time.Millisecond)

	// The CPU state survives a speed change.
	pc := emu.Snapshot().Pc
	assert.Less(pc, cpu.MEMORY_SIZE)

	emu.SetSpeed(0)
	assert.Equal(time.Millisecond, emu.Speed())

	emu.Cancel()
	emu.Wait()
	assert.False(emu.Running())
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Verbose = true

	_, err := emu.Assemble(strings.Join([]string{"LOD 14", "bogus", "HLT"}, "\n"))
	assert.NoError(err)
	assert.Equal(1, len(emu.Program.Skipped))

	_, snap := runToHalt(t, emu)
	assert.Equal(memory.Word(5), snap.Ac)
}
