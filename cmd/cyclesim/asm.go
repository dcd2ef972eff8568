package main

import (
	"fmt"
)

type asmCmd struct {
	Source
}

func (cmd *asmCmd) Run(globals *Globals) (err error) {
	emu, err := cmd.load(globals)
	if err != nil {
		return
	}

	for _, line := range emu.Listing() {
		fmt.Println(line)
	}

	return
}
