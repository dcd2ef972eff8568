package main

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/cpu"
	"github.com/ezrec/cyclesim/emulator"
)

var ErrStepLimit = errors.New("step limit reached")

type runCmd struct {
	Source

	Interval time.Duration `default:"0s" help:"Delay between steps; 0 runs at full speed."`
	MaxSteps int           `default:"1000" help:"Stop after this many steps; 0 for no limit."`
	Trace    bool          `help:"Print the CPU state after every step."`
	Json     bool          `help:"Print the final snapshot as JSON."`
}

func (cmd *runCmd) Run(globals *Globals) (err error) {
	emu, err := cmd.load(globals)
	if err != nil {
		return
	}

	if cmd.Interval > 0 {
		err = cmd.runContinuous(emu)
	} else {
		err = cmd.runSteps(emu)
	}

	report := cmd.report(emu.Snapshot())
	if report != nil && err == nil {
		err = report
	}

	return
}

// runSteps steps the session synchronously until it halts.
func (cmd *runCmd) runSteps(emu *emulator.Emulator) (err error) {
	for steps := 0; !emu.Cpu.Halted(); steps++ {
		if cmd.MaxSteps > 0 && steps >= cmd.MaxSteps {
			err = ErrStepLimit
			return
		}

		var snap emulator.Snapshot
		snap, err = emu.RunStep()
		cmd.trace(snap)
		if err != nil {
			return
		}
	}

	return
}

// runContinuous lets the session's runner step at the requested cadence.
func (cmd *runCmd) runContinuous(emu *emulator.Emulator) (err error) {
	done := make(chan struct{})

	steps := 0
	emu.OnStep = func(snap emulator.Snapshot, step_err error) {
		steps++
		cmd.trace(snap)

		switch {
		case snap.Phase == cpu.PHASE_HALTED:
			err = step_err
			close(done)
		case cmd.MaxSteps > 0 && steps >= cmd.MaxSteps:
			err = ErrStepLimit
			emu.Cancel()
			close(done)
		}
	}

	err = emu.RunContinuous(cmd.Interval)
	if err != nil {
		return
	}

	<-done

	return
}

func (cmd *runCmd) trace(snap emulator.Snapshot) {
	if !cmd.Trace {
		return
	}

	fmt.Printf("%4d: pc=%02X ir=%02X %-3s %2d ac=%02X %-7v line %d\n",
		snap.Ticks, snap.Pc, snap.Ir, snap.Op, snap.Operand, snap.Ac, snap.Phase, snap.LineNo)
}

func (cmd *runCmd) report(snap emulator.Snapshot) (err error) {
	if cmd.Json {
		var data []byte
		data, err = snap.JSON()
		if err != nil {
			return
		}
		fmt.Println(string(data))
		return
	}

	log.WithFields(log.Fields{
		"ticks":  snap.Ticks,
		"cycles": snap.Cycles,
	}).Info(snap.Message)

	fmt.Printf("pc=%02X ac=%02X (%d) phase=%v\n", snap.Pc, snap.Ac, snap.AcSigned, snap.Phase)
	for addr, word := range snap.Memory {
		fmt.Printf("%02X: %02X\n", addr, word)
	}

	return
}
