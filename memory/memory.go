// Package memory implements a fixed-size, fixed-width word addressable
// memory.
package memory

import (
	"iter"
	"slices"

	"github.com/ezrec/cyclesim/bitfield"
)

// MaxWidth is the widest word a Memory can hold.
const MaxWidth = 16

// Word is a single memory cell. Only the low Width() bits are meaningful.
type Word uint16

// Memory is an ordered, fixed length sequence of words.
type Memory struct {
	width uint
	words []Word
}

// New creates a zero-filled memory of size words, each width bits wide.
// The width is clamped to [1, MaxWidth].
func New(size int, width uint) (mem *Memory) {
	if size < 0 {
		size = 0
	}
	width = min(max(width, 1), MaxWidth)

	mem = &Memory{
		width: width,
		words: make([]Word, size),
	}

	return
}

// Size returns the number of addressable words.
func (mem *Memory) Size() int {
	return len(mem.words)
}

// Width returns the word width in bits.
func (mem *Memory) Width() uint {
	return mem.width
}

// Mask returns the value mask for a word.
func (mem *Memory) Mask() uint32 {
	return bitfield.Mask(mem.width)
}

func (mem *Memory) check(addr int) (err error) {
	if addr < 0 || addr >= len(mem.words) {
		err = &ErrAddress{Address: addr, Size: len(mem.words)}
	}
	return
}

// Read returns the word at addr.
func (mem *Memory) Read(addr int) (value Word, err error) {
	err = mem.check(addr)
	if err != nil {
		return
	}

	value = mem.words[addr]
	return
}

// Write stores value at addr, masked to the word width.
func (mem *Memory) Write(addr int, value uint32) (err error) {
	err = mem.check(addr)
	if err != nil {
		return
	}

	mem.words[addr] = Word(value & mem.Mask())
	return
}

// Signed returns the two's-complement value of the word at addr.
func (mem *Memory) Signed(addr int) (value int32, err error) {
	word, err := mem.Read(addr)
	if err != nil {
		return
	}

	value = bitfield.SignExtend(uint32(word), mem.width)
	return
}

// Load replaces the memory contents starting at address 0. Addresses
// past the end of words are zero filled.
func (mem *Memory) Load(words []Word) (err error) {
	if len(words) > len(mem.words) {
		err = &ErrImage{Length: len(words), Size: len(mem.words)}
		return
	}

	mask := Word(mem.Mask())
	for n := range mem.words {
		var word Word
		if n < len(words) {
			word = words[n] & mask
		}
		mem.words[n] = word
	}

	return
}

// Clear zero-fills the memory.
func (mem *Memory) Clear() {
	clear(mem.words)
}

// Image returns a copy of the memory contents.
func (mem *Memory) Image() []Word {
	return slices.Clone(mem.words)
}

// All iterates over every address and its word.
func (mem *Memory) All() iter.Seq2[int, Word] {
	return func(yield func(addr int, word Word) bool) {
		for addr, word := range mem.words {
			if !yield(addr, word) {
				return
			}
		}
	}
}
