package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ezrec/cyclesim/emulator"
)

var errQuit = errors.New("quit")

const stepHelp = "space: step  r: run/stop  +/-: speed  x: reset  l: listing  q: quit"

type stepCmd struct {
	Source

	Interval time.Duration `default:"1s" help:"Initial delay between steps of a run."`
}

// console writes to a terminal that may be in raw mode.
type console struct {
	out io.Writer
}

func (con *console) Printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	fmt.Fprint(con.out, strings.ReplaceAll(text, "\n", "\r\n"))
}

func (con *console) Snapshot(snap emulator.Snapshot) {
	con.Printf("%4d pc=%02X ir=%02X %-3s %2d ac=%02X (%d) %-7v %v\n",
		snap.Ticks, snap.Pc, snap.Ir, snap.Op, snap.Operand,
		snap.Ac, snap.AcSigned, snap.Phase, snap.Message)
}

func (cmd *stepCmd) Run(globals *Globals) (err error) {
	emu, err := cmd.load(globals)
	if err != nil {
		return
	}
	emu.SetSpeed(cmd.Interval)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		var state *term.State
		state, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer func() {
			_ = term.Restore(fd, state)
		}()
	}

	con := &console{out: os.Stdout}
	keys := make(chan byte)
	snaps := make(chan emulator.Snapshot, 16)

	emu.OnStep = func(snap emulator.Snapshot, step_err error) {
		select {
		case snaps <- snap:
		default:
			// Drop frames the console cannot keep up with.
		}
	}

	// Stdin cannot be interrupted; the reader is left behind on exit.
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()

	con.Printf("%v\n", stepHelp)
	con.Snapshot(emu.Snapshot())

	group, ctx := errgroup.WithContext(context.Background())

	group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap := <-snaps:
				con.Snapshot(snap)
			}
		}
	})

	group.Go(func() error {
		defer emu.Cancel()
		for {
			select {
			case <-ctx.Done():
				return nil
			case key, ok := <-keys:
				if !ok {
					return errQuit
				}
				err := cmd.key(con, emu, key)
				if err != nil {
					return err
				}
			}
		}
	})

	err = group.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}

	return
}

// key performs the action bound to a key press.
func (cmd *stepCmd) key(con *console, emu *emulator.Emulator, key byte) (err error) {
	switch key {
	case ' ', '\r', '\n', 's':
		snap, step_err := emu.RunStep()
		con.Snapshot(snap)
		if step_err != nil {
			log.Debugf("step: %v", step_err)
		}
	case 'r':
		if emu.Running() {
			emu.Cancel()
			con.Printf("stopped\n")
			return
		}
		if run_err := emu.RunContinuous(0); run_err != nil {
			con.Printf("%v\n", run_err)
		}
	case '+':
		emu.SetSpeed(max(emu.Speed()/2, 10*time.Millisecond))
		con.Printf("interval %v\n", emu.Speed())
	case '-':
		emu.SetSpeed(min(emu.Speed()*2, 10*time.Second))
		con.Printf("interval %v\n", emu.Speed())
	case 'x':
		con.Snapshot(emu.Reset())
	case 'l':
		for _, line := range emu.Listing() {
			con.Printf("%v\n", line)
		}
	case 'q', 3, 4: // q, ^C, ^D
		err = errQuit
	default:
		con.Printf("%v\n", stepHelp)
	}

	return
}
