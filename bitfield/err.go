package bitfield

import (
	"errors"

	"github.com/ezrec/cyclesim/translate"
)

var f = translate.From

var (
	ErrFieldWidthExceeded = errors.New(f("field width exceeded"))
)

// ErrFieldWidth reports a field value too wide for its declared width.
type ErrFieldWidth struct {
	Field string
	Value uint32
	Width uint
}

func (err *ErrFieldWidth) Error() string {
	name := err.Field
	if len(name) == 0 {
		name = "field"
	}
	return f("%v value %d does not fit in %d bits", name, err.Value, err.Width)
}

func (err *ErrFieldWidth) Unwrap() error {
	return ErrFieldWidthExceeded
}
