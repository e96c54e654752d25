package layout

import "unicode/utf8"

// Font selects the weight of a text run.
type Font int

const (
	Regular Font = iota
	Bold
)

func (f Font) String() string {
	if f == Bold {
		return "bold"
	}
	return "regular"
}

// MarshalText encodes the font by name.
func (f Font) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Measurer reports the advance width of text, in points, at a font size.
// Rendering backends implement it from their font metrics.
type Measurer interface {
	StringWidth(text string, font Font, size float64) float64
}

// FixedMeasurer measures every rune with the same advance, expressed as a
// fraction of the font size. It stands in for real font metrics in tests.
type FixedMeasurer struct {
	// Advance is the per-rune width in ems. Zero means 0.5.
	Advance float64
	// BoldAdvance overrides Advance for bold runs. Zero means Advance.
	BoldAdvance float64
}

// StringWidth implements Measurer.
func (m FixedMeasurer) StringWidth(text string, font Font, size float64) float64 {
	adv := m.Advance
	if adv == 0 {
		adv = 0.5
	}
	if font == Bold && m.BoldAdvance != 0 {
		adv = m.BoldAdvance
	}
	return float64(utf8.RuneCountInString(text)) * adv * size
}
