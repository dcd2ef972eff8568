package main

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/bitfield"
	"github.com/ezrec/cyclesim/lc3"
)

// parseWord reads a number in any Go integer syntax, or binary digits
// with a 'b' suffix or an LC-3 style 'x' hex prefix.
func parseWord(text string, width uint) (value uint32, err error) {
	base := 0
	switch {
	case strings.HasPrefix(text, "x") || strings.HasPrefix(text, "X"):
		text = text[1:]
		base = 16
	case strings.HasSuffix(text, "b") && !strings.HasPrefix(strings.ToLower(text), "0x"):
		text = strings.TrimSuffix(text, "b")
		base = 2
	}

	v, err := strconv.ParseUint(strings.ReplaceAll(text, "_", ""), base, int(width))
	if err != nil {
		return
	}

	value = uint32(v)
	return
}

type decodeCmd struct {
	Words []string `arg:"" help:"16-bit words: 0x1265, x1265, 0b0001001001100101 or 0001001001100101b."`
}

func (cmd *decodeCmd) Run(globals *Globals) (err error) {
	for _, text := range cmd.Words {
		var word uint32
		word, err = parseWord(text, lc3.WORD_BITS)
		if err != nil {
			return
		}

		inst := lc3.Decode(uint16(word))
		fmt.Printf("x%04X %016b %-18v %v\n", word, word, inst, inst.Category())
		if globals.Verbose {
			log.WithFields(log.Fields{
				"opcode": int(inst.Opcode),
				"dr":     inst.DR,
				"sr1":    inst.SR1,
				"mode":   inst.Mode,
				"imm5":   inst.Imm5,
				"sr2":    inst.SR2,
			}).Debugf("x%04X", word)
		}
	}

	return
}

type bitsCmd struct {
	Width  uint     `default:"8" help:"Word width in bits."`
	Values []string `arg:"" help:"Bit patterns to interpret."`
}

func (cmd *bitsCmd) Run(globals *Globals) (err error) {
	width := min(max(cmd.Width, 1), bitfield.MaxWidth)

	for _, text := range cmd.Values {
		var value uint32
		value, err = parseWord(text, width)
		if err != nil {
			return
		}

		in := bitfield.Interpret(value, width)
		fmt.Printf("%s x%s unsigned=%d sign-magnitude=%d twos-complement=%d\n",
			in.Bits, in.Hex, in.Unsigned, in.SignedMagnitude, in.TwosComplement)
	}

	return
}

type datapathCmd struct {
	Origin uint16   `default:"12288" help:"Load address of the first word."`
	Steps  bool     `help:"Print every phase, not just every instruction."`
	Words  []string `arg:"" help:"Instruction words to execute in order."`
}

func (cmd *datapathCmd) Run(globals *Globals) (err error) {
	dp := lc3.NewDatapath(nil)
	dp.Verbose = globals.Verbose
	dp.Pc = cmd.Origin

	var words []uint16
	for _, text := range cmd.Words {
		var word uint32
		word, err = parseWord(text, lc3.WORD_BITS)
		if err != nil {
			return
		}
		words = append(words, uint16(word))
	}

	err = dp.Load(cmd.Origin, words...)
	if err != nil {
		return
	}

	for range words {
		if cmd.Steps {
			for {
				phase := dp.Phase
				err = dp.Step()
				if err != nil {
					return
				}
				fmt.Printf("%-8v %v\n", dp.Phase, dp.Phase.Description())
				if phase == lc3.PHASE_EXECUTE {
					break
				}
			}
		} else {
			err = dp.Cycle()
			if err != nil {
				return
			}
		}

		start, _ := lc3.ZoneOf(dp.Pc - 1).Range()
		fmt.Printf("x%04X %-18v zone=%v (x%04X)\n", dp.Pc-1, dp.Instruction(), lc3.ZoneOf(dp.Pc-1).Label(), start)
	}

	fmt.Print(dp)

	return
}
