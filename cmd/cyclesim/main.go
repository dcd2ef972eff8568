// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"github.com/ezrec/cyclesim/emulator"
	"github.com/ezrec/cyclesim/translate"
)

// Globals are the flags shared by every command.
type Globals struct {
	Verbose bool   `short:"v" help:"Verbose mode."`
	Lang    string `help:"Message language tag, e.g. en-US."`
}

var cli struct {
	Globals

	Asm      asmCmd      `cmd:"" help:"Assemble a program and print its memory listing."`
	Run      runCmd      `cmd:"" default:"withargs" help:"Assemble and run a program until it halts."`
	Step     stepCmd     `cmd:"" help:"Step through a program interactively."`
	Decode   decodeCmd   `cmd:"" help:"Decode LC-3 instruction words."`
	Bits     bitsCmd     `cmd:"" help:"Show the interpretations of a bit pattern."`
	Datapath datapathCmd `cmd:"" help:"Walk LC-3 instruction words through the datapath."`
}

// Source is a program source file, or - for standard input.
type Source struct {
	File   string `arg:"" default:"-" help:"Program source, - for standard input."`
	Strict bool   `help:"Fail on the first line that does not assemble."`
}

// read returns the program text.
func (src *Source) read() (text string, err error) {
	var data []byte
	if src.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(src.File)
	}
	if err != nil {
		return
	}

	text = string(data)
	return
}

// load creates a session with the program assembled into it.
func (src *Source) load(globals *Globals) (emu *emulator.Emulator, err error) {
	text, err := src.read()
	if err != nil {
		return
	}

	emu = emulator.NewEmulator()
	emu.Verbose = globals.Verbose
	emu.Strict = src.Strict

	_, err = emu.Assemble(text)
	if err != nil {
		return
	}

	for _, skip := range emu.Program.Skipped {
		log.WithFields(log.Fields{"line": skip.LineNo}).Warnf("%v: skipped: %v", src.File, skip.Err)
	}

	return
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cyclesim"),
		kong.Description("Toy instruction-cycle simulator."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if len(cli.Lang) != 0 {
		err := translate.SetLanguage(cli.Lang)
		if err != nil {
			log.Fatalf("%v: %v", cli.Lang, err)
		}
	}

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
