// Package bitfield slices fixed-width words into named bit ranges,
// reassembles them, and interprets raw bit patterns as signed values.
//
// All operations are forgiving: out-of-range arguments are clamped and
// oversized values are masked. ComposeStrict is the one validating variant.
package bitfield

// MaxWidth is the widest word handled by the codec.
const MaxWidth = 32

// Field is a single value destined for a bit range of the given width.
type Field struct {
	Name  string
	Value uint32
	Width uint
}

// Mask returns a mask of the low width bits.
func Mask(width uint) uint32 {
	if width >= MaxWidth {
		return 0xffffffff
	}
	return (uint32(1) << width) - 1
}

// Extract returns bits [low..high] of word, right aligned.
func Extract(word uint32, high, low uint) uint32 {
	if high >= MaxWidth {
		high = MaxWidth - 1
	}
	if low > high {
		low, high = high, low
	}
	return (word >> low) & Mask(high-low+1)
}

// SignExtend treats value as a width-bit two's-complement number.
func SignExtend(value uint32, width uint) int32 {
	if width == 0 {
		return 0
	}
	if width >= MaxWidth {
		return int32(value)
	}
	shift := MaxWidth - width
	return int32(value<<shift) >> shift
}

// Compose packs fields most-significant first, masking each field to
// its width and the result to width.
func Compose(width uint, fields ...Field) (word uint32) {
	for _, fld := range fields {
		if fld.Width >= MaxWidth {
			word = fld.Value
			continue
		}
		word = (word << fld.Width) | (fld.Value & Mask(fld.Width))
	}

	return word & Mask(width)
}

// ComposeStrict is Compose, failing when a field value does not fit
// in its declared width.
func ComposeStrict(width uint, fields ...Field) (word uint32, err error) {
	for _, fld := range fields {
		if fld.Value&^Mask(fld.Width) != 0 {
			err = &ErrFieldWidth{Field: fld.Name, Value: fld.Value, Width: fld.Width}
			return
		}
	}

	word = Compose(width, fields...)
	return
}
