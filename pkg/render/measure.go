package render

import "github.com/kelplab/custody/pkg/layout"

// FontMeasurer exposes a canvas' font metrics as a layout.Measurer.
type FontMeasurer struct {
	Canvas Canvas
}

// StringWidth implements layout.Measurer.
func (m FontMeasurer) StringWidth(text string, font layout.Font, size float64) float64 {
	return m.Canvas.StringWidth(text, TextStyle{Size: size, Bold: font == layout.Bold})
}

var _ layout.Measurer = FontMeasurer{}
