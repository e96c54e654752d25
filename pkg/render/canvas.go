package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Page size of landscape US letter, in points.
const (
	PageWidth  = 792.0
	PageHeight = 612.0
)

// Color is an RGB colour.
type Color struct{ R, G, B uint8 }

// Common colours.
var (
	Black = Color{}
	White = Color{255, 255, 255}
)

// Hex parses "#RRGGBB". Malformed input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func (c Color) String() string { return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B) }

// Pen describes a stroke. A zero Width draws a hairline of 0.3pt.
type Pen struct {
	Color Color
	Width float64
}

// TextStyle describes a Helvetica text run.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color Color
}

// Canvas is a page-oriented drawing surface in points, origin bottom left.
type Canvas interface {
	// AddPage starts a new page; drawing before the first AddPage is invalid.
	AddPage()
	// PageCount returns the number of pages started so far.
	PageCount() int

	Rect(x, y, w, h float64, pen Pen)
	FillRect(x, y, w, h float64, fill Color)
	Line(x1, y1, x2, y2 float64, pen Pen)

	// Text draws s with its baseline starting at (x, y).
	Text(x, y float64, s string, st TextStyle)
	// TextCentered centres s horizontally in [x, x+w].
	TextCentered(x, y, w float64, s string, st TextStyle)
	// TextRight ends s at x.
	TextRight(x, y float64, s string, st TextStyle)
	// TextRotated draws s rotated 90° counter-clockwise, reading upwards
	// from (x, y). Glyphs extend to the left of x.
	TextRotated(x, y float64, s string, st TextStyle)

	// Checkbox draws a square box with an "X" when checked.
	Checkbox(x, y, size float64, checked bool)
	// Image draws the image read from r scaled to fit w×h, preserving its
	// aspect ratio. name identifies the image and its extension the type.
	Image(name string, r io.Reader, x, y, w, h float64) error

	StringWidth(s string, st TextStyle) float64

	SetTitle(title string)
	// Bytes finishes the document and returns its encoding.
	Bytes() ([]byte, error)
}
