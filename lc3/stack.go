package lc3

import (
	"errors"
	"iter"

	"github.com/ezrec/cyclesim/memory"
)

const (
	STACK_BASE  = 0x4000 // R6 of an empty stack.
	STACK_LIMIT = 0x0100 // Maximum stack depth, in words.
)

// Entry is a word pushed onto the stack.
type Entry struct {
	Addr  uint16
	Value uint16
	Label string
}

// Frame is the activation record pushed by a call.
type Frame struct {
	Local   Entry // Local variable, at R6.
	DynLink Entry // Caller's frame pointer, at R6+1.
	RetAddr Entry // Return address, at R6+2.
}

// Stack is the R6 runtime stack. It grows toward lower addresses and
// keeps its words in Memory.
type Stack struct {
	Memory *memory.Memory
	R6     uint16  // Stack pointer; the top entry lives at R6.
	Data   []Entry // Pushed entries, oldest first.
}

// NewStack creates an empty stack in mem.
func NewStack(mem *memory.Memory) (s *Stack) {
	s = &Stack{Memory: mem}
	s.Reset()
	return
}

// Push decrements R6 and stores value there.
func (s *Stack) Push(value uint16, label string) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	addr := s.R6 - 1
	err = s.Memory.Write(int(addr), uint32(value))
	if err != nil {
		err = errors.Join(ErrMemory, err)
		return
	}

	s.R6 = addr
	s.Data = append(s.Data, Entry{Addr: addr, Value: value, Label: label})
	return
}

// Pop removes the top entry and increments R6.
func (s *Stack) Pop() (entry Entry, ok bool) {
	entry, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
		s.R6++
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= STACK_LIMIT
}

// Peek returns the top entry, read back from memory.
func (s *Stack) Peek() (entry Entry, ok bool) {
	if s.Empty() {
		return
	}

	entry = s.Data[len(s.Data)-1]
	if word, err := s.Memory.Read(int(entry.Addr)); err == nil {
		entry.Value = uint16(word)
	}

	return entry, true
}

// Call pushes a frame: the return address, the caller's frame pointer,
// then one local variable. Nothing is pushed unless the whole frame fits.
func (s *Stack) Call(retAddr, dynLink, local uint16) (frame Frame, err error) {
	if len(s.Data)+3 > STACK_LIMIT {
		err = ErrStackOverflow
		return
	}

	for _, item := range []struct {
		value uint16
		label string
	}{
		{retAddr, f("Ret Addr")},
		{dynLink, f("Dyn Link (FP)")},
		{local, f("Local Var")},
	} {
		err = s.Push(item.value, item.label)
		if err != nil {
			return
		}
	}

	top := len(s.Data)
	frame = Frame{
		Local:   s.Data[top-1],
		DynLink: s.Data[top-2],
		RetAddr: s.Data[top-3],
	}

	return
}

// Return pops the frame pushed by the matching Call.
func (s *Stack) Return() (frame Frame, err error) {
	if len(s.Data) < 3 {
		err = ErrStackUnderflow
		return
	}

	frame.Local, _ = s.Pop()
	frame.DynLink, _ = s.Pop()
	frame.RetAddr, _ = s.Pop()

	return
}

// Reset empties the stack and restores R6 to STACK_BASE.
func (s *Stack) Reset() {
	s.R6 = STACK_BASE
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}

// All iterates over the entries from the top of the stack down.
func (s *Stack) All() iter.Seq[Entry] {
	return func(yield func(entry Entry) bool) {
		for n := len(s.Data) - 1; n >= 0; n-- {
			if !yield(s.Data[n]) {
				return
			}
		}
	}
}
