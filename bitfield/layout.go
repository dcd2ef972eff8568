package bitfield

// Span names a bit range inside a layout.
type Span struct {
	Name  string
	Width uint
}

// Layout is an ordered list of spans, most-significant first.
type Layout []Span

// Width returns the total width of the layout.
func (l Layout) Width() (width uint) {
	for _, span := range l {
		width += span.Width
	}
	return
}

// Decompose splits word into one value per span of the layout.
func (l Layout) Decompose(word uint32) (values []uint32) {
	values = make([]uint32, len(l))

	low := l.Width()
	for n, span := range l {
		low -= span.Width
		if span.Width == 0 {
			continue
		}
		values[n] = Extract(word, low+span.Width-1, low)
	}

	return
}

// Compose packs values into a word using the layout. Missing values
// are zero; excess values are ignored.
func (l Layout) Compose(values []uint32) uint32 {
	fields := l.Fields(values)
	return Compose(l.Width(), fields...)
}

// Fields pairs values with the spans of the layout.
func (l Layout) Fields(values []uint32) (fields []Field) {
	fields = make([]Field, len(l))
	for n, span := range l {
		fields[n] = Field{Name: span.Name, Width: span.Width}
		if n < len(values) {
			fields[n].Value = values[n]
		}
	}
	return
}

// Decompose splits word into one value per span of the layout.
func Decompose(word uint32, layout Layout) []uint32 {
	return layout.Decompose(word)
}
