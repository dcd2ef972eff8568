package lc3

import (
	"errors"

	"github.com/ezrec/cyclesim/translate"
)

var f = translate.From

var (
	ErrMemory         = errors.New(f("memory access"))
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
)
