package bitfield

import (
	"fmt"
	"strings"
)

// Interpretation is the same bit pattern read several ways.
type Interpretation struct {
	Width           uint
	Bits            string // MSB first
	Hex             string
	Unsigned        uint32
	SignedMagnitude int64 // MSB is the sign, the rest the magnitude
	TwosComplement  int32
}

// Interpret reads the low width bits of value as unsigned,
// signed-magnitude and two's-complement numbers.
func Interpret(value uint32, width uint) (in Interpretation) {
	if width == 0 {
		return
	}
	if width > MaxWidth {
		width = MaxWidth
	}

	value &= Mask(width)

	in.Width = width
	in.Unsigned = value
	in.TwosComplement = SignExtend(value, width)

	magnitude := int64(value & Mask(width-1))
	if Extract(value, width-1, width-1) != 0 {
		magnitude = -magnitude
	}
	in.SignedMagnitude = magnitude

	digits := int((width + 3) / 4)
	in.Hex = fmt.Sprintf("%0*X", digits, value)

	var sb strings.Builder
	for bit := int(width) - 1; bit >= 0; bit-- {
		if value&(1<<uint(bit)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	in.Bits = sb.String()

	return
}
