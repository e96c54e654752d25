package layout

import "strings"

// Defaults for vertical analysis-column text, in points.
const (
	DefaultFontSize       = 5.5
	DefaultMinFontSize    = 4.0
	DefaultFontStep       = 0.3
	DefaultMethodFontSize = 5.0
	DefaultLineGap        = DefaultFontSize + 3
	DefaultMargin         = 8.0
	DefaultPadding        = 4.0

	// ascent approximates the cap height of a run as a fraction of its size.
	// Rotated runs extend this far to the left of their baseline.
	ascent = 0.75
)

// Box is an axis-aligned rectangle in page space with Y growing upwards.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FitOptions tunes [FitVertical]. Zero fields take the package defaults.
type FitOptions struct {
	FontSize       float64 `json:"font_size"`
	MinFontSize    float64 `json:"min_font_size"`
	Step           float64 `json:"step"`
	MethodFontSize float64 `json:"method_font_size"`
	// LineGap separates wrapped lines across the column at FontSize.
	LineGap float64 `json:"line_gap"`
	// Margin is subtracted from the box height to give the line budget.
	Margin float64 `json:"margin"`
	// Padding is kept clear across the column width, split between sides.
	Padding float64 `json:"padding"`
}

// DefaultFitOptions returns the sizes used on the printed form.
func DefaultFitOptions() FitOptions {
	return FitOptions{}.withDefaults()
}

func (o FitOptions) withDefaults() FitOptions {
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.MinFontSize <= 0 || o.MinFontSize > o.FontSize {
		o.MinFontSize = min(DefaultMinFontSize, o.FontSize)
	}
	if o.Step <= 0 {
		o.Step = DefaultFontStep
	}
	if o.MethodFontSize <= 0 {
		o.MethodFontSize = DefaultMethodFontSize
	}
	if o.LineGap <= 0 {
		o.LineGap = o.FontSize + 3
	}
	if o.Margin < 0 {
		o.Margin = 0
	} else if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// Run is one rotated text run. X is the baseline, which the glyphs sit to
// the left of once rotated; Y is where the text starts and it reads upwards.
type Run struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Font Font    `json:"font"`
}

// VerticalFit places a column's label lines and method run.
type VerticalFit struct {
	// Lines are ordered first to last; the first line is rightmost.
	Lines    []Run   `json:"lines"`
	Method   *Run    `json:"method,omitempty"`
	FontSize float64 `json:"font_size"`
	LineGap  float64 `json:"line_gap"`
	Wrapped  bool    `json:"wrapped,omitempty"`
	// Crowded marks a fit that could not honour every constraint: a line
	// longer than the column height or runs closer than their size.
	Crowded bool `json:"crowded,omitempty"`
}

// FitVertical places label and method, both rotated 90°, inside box.
//
// The label is first tried on one line at the starting size, then at sizes
// shrinking by Step down to MinFontSize. If it still overflows the column
// height it is word-wrapped into lines laid side by side across the column,
// with the line gap compressed as needed to stay inside the column width.
// The method sits beside the label at a size no larger than the label's.
// FitVertical never fails; impossible inputs are marked Crowded.
func FitVertical(label, method string, box Box, m Measurer, opts FitOptions) VerticalFit {
	opts = opts.withDefaults()
	if m == nil {
		m = FixedMeasurer{}
	}
	avail := box.H - opts.Margin
	fit := VerticalFit{}

	var lines []string
	size := opts.FontSize
	if label != "" {
		for {
			if m.StringWidth(label, Bold, size) <= avail+eps {
				lines = []string{label}
				break
			}
			if size <= opts.MinFontSize+eps {
				break
			}
			size = max(opts.MinFontSize, size-opts.Step)
		}
		if lines == nil {
			// Wrapping restarts from the full size and only shrinks again
			// while the lines do not fit across the column.
			size = opts.FontSize
			lines = wrapWords(label, avail, m, size)
			for size > opts.MinFontSize+eps && !acrossFits(len(lines), size, method != "", box.W, opts) {
				size = max(opts.MinFontSize, size-opts.Step)
				lines = wrapWords(label, avail, m, size)
			}
			fit.Wrapped = len(lines) > 1
		}
		for _, l := range lines {
			if m.StringWidth(l, Bold, size) > avail+eps {
				fit.Crowded = true
			}
		}
	}
	fit.FontSize = size

	methodSize := min(size, opts.MethodFontSize)
	if method != "" {
		for methodSize > opts.MinFontSize+eps && m.StringWidth(method, Regular, methodSize) > avail+eps {
			methodSize = max(opts.MinFontSize, methodSize-opts.Step)
		}
		methodSize = min(methodSize, size)
		if m.StringWidth(method, Regular, methodSize) > avail+eps {
			fit.Crowded = true
		}
	}

	// Horizontal placement across the column.
	n := len(lines)
	usable := box.W - opts.Padding
	gap := opts.LineGap * size / opts.FontSize
	lead := 0.0 // width left of the leftmost baseline
	slots := n - 1
	if method != "" {
		lead = ascent * methodSize
		slots = n
	} else if n > 0 {
		lead = ascent * size
	}
	if slots > 0 && float64(slots)*gap+lead > usable {
		gap = max(0, (usable-lead)/float64(slots))
		if gap < ascent*size {
			fit.Crowded = true
		}
	}
	fit.LineGap = gap

	blockW := float64(max(slots, 0))*gap + lead
	left := box.X + (box.W-blockW)/2
	if left < box.X+opts.Padding/2 {
		left = box.X + opts.Padding/2
	}
	right := left + blockW
	if limit := box.X + box.W - opts.Padding/2; right > limit {
		right = limit
		fit.Crowded = true
	}

	y := box.Y + opts.Margin/2
	for i, l := range lines {
		fit.Lines = append(fit.Lines, Run{Text: l, X: right - float64(i)*gap, Y: y, Size: size, Font: Bold})
	}
	if method != "" {
		fit.Method = &Run{Text: method, X: right - float64(n)*gap, Y: y, Size: methodSize, Font: Regular}
	}
	return fit
}

// acrossFits reports whether n lines plus an optional method run fit the
// column width at their natural gap.
func acrossFits(n int, size float64, method bool, width float64, opts FitOptions) bool {
	gap := opts.LineGap * size / opts.FontSize
	slots := n - 1
	lead := ascent * size
	if method {
		slots = n
		lead = ascent * min(size, opts.MethodFontSize)
	}
	return float64(slots)*gap+lead <= width-opts.Padding+eps
}

// wrapWords greedily packs words into lines no longer than limit.
// A word longer than limit occupies a line of its own.
func wrapWords(text string, limit float64, m Measurer, size float64) []string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(text) {
		test := w
		if cur != "" {
			test = cur + " " + w
		}
		if cur == "" || m.StringWidth(test, Bold, size) <= limit+eps {
			cur = test
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
