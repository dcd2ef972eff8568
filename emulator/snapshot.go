package emulator

import (
	"encoding/json"

	"github.com/ezrec/cyclesim/cpu"
)

// Snapshot is the session state handed to a presentation layer after
// every step, reset and assembly.
type Snapshot struct {
	cpu.State

	LineNo  int    `json:"line_no"` // Source line of the instruction at PC.
	Running bool   `json:"running"` // A continuous run is active.
	Message string `json:"message"` // Last status message.
}

// JSON returns the snapshot as a JSON document.
func (snap Snapshot) JSON() ([]byte, error) {
	return json.Marshal(snap)
}

// snapshot captures the session. The caller holds the lock.
func (emu *Emulator) snapshot() Snapshot {
	return Snapshot{
		State:   emu.Cpu.State(),
		LineNo:  emu.lineNo(emu.Cpu.Pc),
		Running: emu.running(),
		Message: emu.message,
	}
}
