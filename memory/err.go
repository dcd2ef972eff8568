package memory

import (
	"errors"

	"github.com/ezrec/cyclesim/translate"
)

var f = translate.From

var (
	ErrOutOfRange    = errors.New(f("address out of range"))
	ErrImageTooLarge = errors.New(f("image too large"))
)

// ErrAddress reports an access outside of [0, Size).
type ErrAddress struct {
	Address int
	Size    int
}

func (err *ErrAddress) Error() string {
	return f("address %d outside of [0, %d)", err.Address, err.Size)
}

func (err *ErrAddress) Unwrap() error {
	return ErrOutOfRange
}

// ErrImage reports a load larger than the memory.
type ErrImage struct {
	Length int
	Size   int
}

func (err *ErrImage) Error() string {
	return f("image of %d words exceeds memory of %d words", err.Length, err.Size)
}

func (err *ErrImage) Unwrap() error {
	return ErrImageTooLarge
}
