package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/cyclesim/memory"
)

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("; header\nLOD 14\n\nHLT"))
	assert.NoError(err)

	op := prog.Debug(1)
	if assert.NotNil(op) {
		assert.Equal(4, op.LineNo)
		assert.Equal(OP_HLT, op.Code.Op())
	}

	op = prog.Debug(0)
	if assert.NotNil(op) {
		assert.Equal(2, op.LineNo)
		assert.Equal("LOD 14", op.Code.String())
	}

	assert.Nil(prog.Debug(2))
	assert.Nil(prog.Debug(-1))
}

func TestProgramCodes(t *testing.T) {
	assert := assert.New(t)

	prog, err := (&Assembler{}).Parse(strings.NewReader("LOD 14\nADD 15\nSTO 13\nHLT"))
	assert.NoError(err)

	var addrs []int
	var text []string
	for addr, code := range prog.Codes() {
		addrs = append(addrs, addr)
		text = append(text, code.String())
		if addr == 2 {
			break
		}
	}

	assert.Equal([]int{0, 1, 2}, addrs)
	assert.Equal([]string{"LOD 14", "ADD 15", "STO 13"}, text)
}

func TestProgramLoad(t *testing.T) {
	assert := assert.New(t)

	prog, err := (&Assembler{}).Parse(strings.NewReader("LOD 14\nHLT"))
	assert.NoError(err)

	mem := memory.New(MEMORY_SIZE, WORD_BITS)
	assert.NoError(mem.Write(5, 0x77))
	assert.NoError(prog.Load(mem))
	assert.Equal(prog.Image(), mem.Image())

	value, err := mem.Read(5)
	assert.NoError(err)
	assert.Equal(memory.Word(0), value)

	small := memory.New(4, WORD_BITS)
	err = prog.Load(small)
	assert.True(errors.Is(err, memory.ErrImageTooLarge))
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word memory.Word
		text string
	}){
		{0x00, "HLT"},
		{0x0f, "HLT"},
		{0x1e, "LOD 14"},
		{0x2f, "ADD 15"},
		{0x31, "SUB 1"},
		{0x4d, "STO 13"},
		{0x50, "JMP 0"},
		{0x67, "JZ 7"},
		{0x7a, "??? 10"},
		{0xff, "??? 15"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, code8(entry.word).String(), entry.text)
	}

	op, operand := code8(0x4d).Decode()
	assert.Equal(OP_STO, op)
	assert.Equal(uint32(13), operand)

	assert.Equal(memory.Word(0x4d), MakeCode(OP_STO, 13, WORD_BITS).Word)
	assert.Equal(memory.Word(0x4d), MakeCode(OP_STO, 0x1d, WORD_BITS).Word)

	wide := MakeCode(OP_JZ, 0x3ff, 16)
	assert.Equal(memory.Word(0x63ff), wide.Word)
	assert.Equal(OP_JZ, wide.Op())
	assert.Equal(uint32(0x3ff), wide.Operand())
}

func TestParseOp(t *testing.T) {
	assert := assert.New(t)

	for op := range Ops() {
		parsed, ok := ParseOp(strings.ToLower(op.String()))
		assert.True(ok, op.String())
		assert.Equal(op, parsed)
		assert.True(op.Valid())
		assert.NotEqual("Invalid", op.Description())
	}

	_, ok := ParseOp("NOP")
	assert.False(ok)
	assert.False(CodeOp(7).Valid())
	assert.Equal("CodeOp(7)", CodeOp(7).String())
	assert.Equal("Jump if AC == 0", OP_JZ.Description())
}

func TestPhaseText(t *testing.T) {
	assert := assert.New(t)

	text, err := PHASE_EXECUTE.MarshalText()
	assert.NoError(err)
	assert.Equal("EXECUTE", string(text))
	assert.Equal("HALTED", PHASE_HALTED.String())
}
