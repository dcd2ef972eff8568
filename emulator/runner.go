package emulator

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/cpu"
)

// Runner drives a session one step at a time, or continuously at a
// fixed interval.
type Runner interface {
	RunStep() (Snapshot, error)
	RunContinuous(interval time.Duration) error
	SetSpeed(interval time.Duration)
	Cancel()
	Wait()
	Running() bool
}

var _ Runner = (*Emulator)(nil)

// runner is a single continuous run.
type runner struct {
	cancel chan struct{}      // Closed to stop the run.
	done   chan struct{}      // Closed when the run goroutine exits.
	speed  chan time.Duration // New cadence for the run.
}

// RunStep performs exactly one step of the CPU.
//
// Stepping a halted CPU returns cpu.ErrAlreadyHalted and changes nothing.
// Any other error is an ErrRuntime, and leaves the CPU halted.
func (emu *Emulator) RunStep() (snap Snapshot, err error) {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.step()
}

// RunContinuous steps the CPU every interval until it halts or Cancel
// is called. An active run is replaced. A non-positive interval uses the
// current speed.
func (emu *Emulator) RunContinuous(interval time.Duration) (err error) {
	emu.Cancel()

	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	if emu.Cpu.Halted() {
		emu.message = f("Program Halted.")
		err = cpu.ErrAlreadyHalted
		return
	}

	if interval > 0 {
		emu.interval = interval
	}

	r := &runner{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
		speed:  make(chan time.Duration, 1),
	}
	emu.runner = r
	emu.last = r

	if emu.Verbose {
		log.WithFields(log.Fields{"interval": emu.interval}).Printf("emulator: run")
	}

	go emu.run(r, emu.interval)

	return
}

// run is the body of the run goroutine.
func (emu *Emulator) run(r *runner, interval time.Duration) {
	defer close(r.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.cancel:
			return
		case interval = <-r.speed:
			ticker.Reset(interval)
		case <-ticker.C:
			emu.mutex.Lock()
			select {
			case <-r.cancel:
				// Cancelled while waiting for the lock.
				emu.mutex.Unlock()
				return
			default:
			}
			snap, err := emu.step()
			halted := emu.Cpu.Halted()
			if halted {
				snap.Running = false
			}
			on_step := emu.OnStep
			emu.mutex.Unlock()

			if on_step != nil {
				on_step(snap, err)
			}

			if halted {
				if emu.Verbose {
					log.Printf("emulator: run complete")
				}
				return
			}
		}
	}
}

// SetSpeed changes the interval of the active run, and of later runs.
// CPU state is untouched.
func (emu *Emulator) SetSpeed(interval time.Duration) {
	if interval <= 0 {
		return
	}

	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	emu.interval = interval

	r := emu.runner
	if r == nil {
		return
	}

	// Replace any cadence the run has not picked up yet.
	select {
	case <-r.speed:
	default:
	}
	r.speed <- interval
}

// Speed returns the interval of continuous runs.
func (emu *Emulator) Speed() time.Duration {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.interval
}

// Cancel stops the active run, if any. No step is performed after Cancel
// returns. It is safe to call from OnStep.
func (emu *Emulator) Cancel() {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	r := emu.runner
	if r == nil {
		return
	}

	emu.runner = nil
	close(r.cancel)

	if emu.Verbose {
		log.Printf("emulator: run cancelled")
	}
}

// Wait blocks until the goroutine of the most recent run, if any, has
// exited. After Cancel this includes an OnStep call still in flight, so
// Wait must not be called from OnStep.
func (emu *Emulator) Wait() {
	emu.mutex.Lock()
	r := emu.last
	emu.mutex.Unlock()

	if r == nil {
		return
	}

	<-r.done
}

// Running returns true while a continuous run is active.
func (emu *Emulator) Running() bool {
	emu.mutex.Lock()
	defer emu.mutex.Unlock()

	return emu.running()
}

// running is Running. The caller holds the lock.
func (emu *Emulator) running() bool {
	r := emu.runner
	if r == nil {
		return false
	}

	select {
	case <-r.done:
		return false
	default:
		return true
	}
}
