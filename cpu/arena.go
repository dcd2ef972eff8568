package cpu

const (
	MEMORY_SIZE = 16 // Words of memory in the toy machine.
	WORD_BITS   = 8  // Bits per memory word.
	OPCODE_BITS = 4  // Opcode bits at the top of each instruction word.
	DATA_START  = 13 // First address of the reserved data region.
)

// DefaultData pre-seeds the data region before assembly.
var DefaultData = map[int]uint32{
	14: 5,
	15: 3,
}
