// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/cyclesim/internal"
	"github.com/ezrec/cyclesim/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// EXPRESSION_STEPS bounds the work of a single $(...) evaluation.
const EXPRESSION_STEPS = 100_000

var (
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLeadingInt = regexp.MustCompile(`^[+-]?[0-9]+`)
)

// Assembler is a single pass, one word per line assembler for the toy
// machine.
//
// Operands are decimal, but 0x, 0b and 0o prefixed numbers are also
// accepted in both modes.
//
// The zero value assembles for the default 16 word, 8 bit machine with the
// default data region.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.
	Strict  bool // If set, any bad line fails the assembly.

	Size      int            // Memory size in words, MEMORY_SIZE if zero.
	Width     uint           // Word width in bits, WORD_BITS if zero.
	DataStart int            // First address of the data region, DATA_START if zero.
	Data      map[int]uint32 // Data region seeds, DefaultData if nil.

	Opcode  []Opcode          // List of generated opcodes.
	Skipped []ErrSyntax       // Lines that produced no opcode.
	Equate  map[string]string // Map of equates.

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) size() int {
	if asm.Size > 0 {
		return asm.Size
	}
	return MEMORY_SIZE
}

func (asm *Assembler) width() uint {
	if asm.Width > 0 {
		return min(asm.Width, memory.MaxWidth)
	}
	return WORD_BITS
}

func (asm *Assembler) dataStart() int {
	start := DATA_START
	if asm.DataStart > 0 {
		start = asm.DataStart
	}
	return min(start, asm.size())
}

func (asm *Assembler) data() map[int]uint32 {
	if asm.Data == nil {
		return DefaultData
	}
	return asm.Data
}

// Defines iterates over the equates visible to every assembly.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	layout := map[string]string{
		"MEM_SIZE":   fmt.Sprintf("%d", asm.size()),
		"WORD_BITS":  fmt.Sprintf("%d", asm.width()),
		"DATA_START": fmt.Sprintf("%d", asm.dataStart()),
	}

	ops := func(yield func(name, value string) bool) {
		for op := range Ops() {
			if !yield("OP_"+op.String(), fmt.Sprintf("%d", int(op))) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(maps.All(sysEquate),
		maps.All(layout),
		ops,
		maps.All(asm.predefine),
	)
}

// valueOf returns the value of a simple word. Numbers are decimal unless
// they carry a 0x, 0b or 0o prefix, so "0b11" is 3 rather than the 0 a
// plain decimal reading would give.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	base := 10
	digits := strings.ToLower(strings.TrimLeft(word, "+-"))
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0o") {
		base = 0
	}

	value, err = strconv.ParseInt(word, base, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// leadingValueOf is the lenient reading of an operand: the leading
// decimal digits, or zero.
func leadingValueOf(word string) (value int64) {
	digits := reLeadingInt.FindString(word)
	if len(digits) == 0 {
		return
	}

	value, _ = strconv.ParseInt(digits, 10, 64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	thread.SetMaxExecutionSteps(EXPRESSION_STEPS)
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// currentAddr gets the next free instruction address.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	return asm.Opcode[len(asm.Opcode)-1].Addr + 1
}

// Parse parses an input stream into a Program.
//
// Lines that cannot be assembled are recorded in Program.Skipped, unless
// Strict is set, in which case the first one is returned as an ErrSyntax.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, 1<<20)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	return asm.AssembleLines(lines)
}

// AssembleLines assembles an ordered list of source lines. It only fails
// when Strict is set.
func (asm *Assembler) AssembleLines(lines []string) (prog *Program, err error) {
	asm.Opcode = asm.Opcode[:0]
	asm.Skipped = nil
	asm.Equate = maps.Collect(asm.Defines())

	for n, text := range lines {
		lineno := n + 1

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		line_err := asm.parseLine(text, lineno)
		if line_err == nil {
			continue
		}

		syntax_err := ErrSyntax{LineNo: lineno, Line: text, Err: line_err}
		if asm.Strict {
			err = syntax_err
			return
		}

		if asm.Verbose {
			log.WithFields(log.Fields{"line": lineno}).Warnf("skipped: %v", line_err)
		}
		asm.Skipped = append(asm.Skipped, syntax_err)
	}

	prog = &Program{
		Size:      asm.size(),
		Width:     asm.width(),
		DataStart: asm.dataStart(),
		Data:      maps.Clone(asm.data()),
		Opcodes:   slices.Clone(asm.Opcode),
		Skipped:   slices.Clone(asm.Skipped),
	}

	return
}

// parseLine parses a single line of source text.
func (asm *Assembler) parseLine(text string, lineno int) (err error) {
	line, _, _ := strings.Cut(text, ";")
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%d", lineno)

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return asm.parseWords(words, lineno)
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	op, ok := ParseOp(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if asm.Strict && len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	var operand int64
	if len(words) > 1 {
		operand, err = asm.valueOf(words[1])
		if err != nil {
			if asm.Strict {
				return
			}
			operand = leadingValueOf(words[1])
			if asm.Verbose {
				log.WithFields(log.Fields{"line": lineno}).Warnf("%v, using %d", err, operand)
			}
			err = nil
		}
	}

	addr := asm.currentAddr()
	if addr >= asm.dataStart() {
		err = ErrProgramFull
		return
	}

	var code Code
	if asm.Strict {
		code, err = makeCodeStrict(op, uint32(operand), asm.width())
		if err != nil {
			return
		}
	} else {
		code = MakeCode(op, uint32(operand), asm.width())
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Addr:   addr,
		Words:  slices.Clone(words),
		Code:   code,
	})

	return
}

// Assemble assembles source lines with a lenient default assembler and
// returns the resulting memory image.
func Assemble(lines ...string) []memory.Word {
	asm := &Assembler{}

	var source []string
	for _, line := range lines {
		source = append(source, strings.Split(line, "\n")...)
	}

	prog, _ := asm.AssembleLines(source)

	return prog.Image()
}
