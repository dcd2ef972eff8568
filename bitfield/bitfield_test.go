package bitfield

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name      string
		word      uint32
		high, low uint
		value     uint32
	}){
		{"opcode", 0b0001_0100_0110_0101, 15, 12, 0b0001},
		{"dr", 0b0001_0100_0110_0101, 11, 9, 0b010},
		{"sr1", 0b0001_0100_0110_0101, 8, 6, 0b001},
		{"mode", 0b0001_0100_0110_0101, 5, 5, 1},
		{"imm5", 0b0001_0100_0110_0101, 4, 0, 0b00101},
		{"swapped", 0xf0, 4, 7, 0xf},
		{"clamped", 0xffffffff, 40, 28, 0xf},
		{"whole", 0xdeadbeef, 31, 0, 0xdeadbeef},
	}

	for _, entry := range table {
		assert.Equal(entry.value, Extract(entry.word, entry.high, entry.low), entry.name)
	}
}

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int32(5), SignExtend(0b00101, 5))
	assert.Equal(int32(-1), SignExtend(0b11111, 5))
	assert.Equal(int32(-16), SignExtend(0b10000, 5))
	assert.Equal(int32(-1), SignExtend(0xff, 8))
	assert.Equal(int32(127), SignExtend(0x7f, 8))
	assert.Equal(int32(0), SignExtend(0xff, 0))
	assert.Equal(int32(-2), SignExtend(0xfffffffe, 32))

	for width := uint(1); width < MaxWidth; width++ {
		for _, v := range []uint32{0, 1, Mask(width - 1), Mask(width - 1) + 1, Mask(width)} {
			v &= Mask(width)
			top := Extract(v, width-1, width-1)
			if top == 0 {
				assert.Equal(int32(v), SignExtend(v, width), "width %d value %d", width, v)
			} else {
				assert.Equal(int64(v)-(int64(1)<<width), int64(SignExtend(v, width)), "width %d value %d", width, v)
			}
		}
		assert.Equal(int32(-1), SignExtend(Mask(width), width))
	}
}

func TestCompose(t *testing.T) {
	assert := assert.New(t)

	word := Compose(8, Field{Value: 4, Width: 4}, Field{Value: 13, Width: 4})
	assert.Equal(uint32(0x4d), word)

	// Oversized operand is masked to its field.
	word = Compose(8, Field{Value: 1, Width: 4}, Field{Value: 0x1e, Width: 4})
	assert.Equal(uint32(0x1e), word)

	// Result is masked to the word width.
	word = Compose(4, Field{Value: 0xf, Width: 4}, Field{Value: 0x3, Width: 4})
	assert.Equal(uint32(0x3), word)
}

func TestComposeStrict(t *testing.T) {
	assert := assert.New(t)

	word, err := ComposeStrict(8, Field{Name: "opcode", Value: 2, Width: 4}, Field{Name: "operand", Value: 15, Width: 4})
	assert.NoError(err)
	assert.Equal(uint32(0x2f), word)

	_, err = ComposeStrict(8, Field{Name: "opcode", Value: 2, Width: 4}, Field{Name: "operand", Value: 16, Width: 4})
	assert.True(errors.Is(err, ErrFieldWidthExceeded))

	var ewidth *ErrFieldWidth
	assert.True(errors.As(err, &ewidth))
	assert.Equal("operand", ewidth.Field)
	assert.Equal(uint32(16), ewidth.Value)
	assert.Equal(uint(4), ewidth.Width)
}

var lc3Layout = Layout{
	{"opcode", 4}, {"dr", 3}, {"sr1", 3}, {"mode", 1}, {"imm5", 5},
}

func TestLayout(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint(16), lc3Layout.Width())

	values := lc3Layout.Decompose(0b0001_010_001_1_00101)
	assert.Equal([]uint32{1, 2, 1, 1, 5}, values)
	assert.Equal(uint32(0b0001_010_001_1_00101), lc3Layout.Compose(values))

	toy := Layout{{"opcode", 4}, {"operand", 4}}
	assert.Equal([]uint32{0x2, 0xf}, Decompose(0x2f, toy))
	assert.Equal(uint32(0x20), toy.Compose([]uint32{2}))
}

func FuzzLayoutRoundTrip(f *testing.F) {
	f.Add(uint16(0))
	f.Add(uint16(0xffff))
	f.Add(uint16(0b0001_0100_0110_0101))

	toy := Layout{{"opcode", 4}, {"operand", 4}}

	f.Fuzz(func(t *testing.T, word uint16) {
		assert := assert.New(t)

		assert.Equal(uint32(word), lc3Layout.Compose(lc3Layout.Decompose(uint32(word))))

		low := uint32(word) & 0xff
		assert.Equal(low, toy.Compose(toy.Decompose(low)))
	})
}

func TestInterpret(t *testing.T) {
	assert := assert.New(t)

	in := Interpret(0b1000_0101, 8)
	assert.Equal(uint(8), in.Width)
	assert.Equal("10000101", in.Bits)
	assert.Equal("85", in.Hex)
	assert.Equal(uint32(133), in.Unsigned)
	assert.Equal(int64(-5), in.SignedMagnitude)
	assert.Equal(int32(133-256), in.TwosComplement)

	in = Interpret(0x17f, 8)
	assert.Equal("01111111", in.Bits)
	assert.Equal(uint32(127), in.Unsigned)
	assert.Equal(int64(127), in.SignedMagnitude)
	assert.Equal(int32(127), in.TwosComplement)

	in = Interpret(0x5, 5)
	assert.Equal("05", in.Hex)
	assert.Equal("00101", in.Bits)

	assert.Equal(Interpretation{}, Interpret(0xff, 0))
}
