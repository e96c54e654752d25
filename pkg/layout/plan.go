package layout

import (
	"sort"
	"strings"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
)

// HeaderGeometry locates the analysis-column block on the page.
type HeaderGeometry struct {
	// X is the left edge of the first column and Width the total width of
	// the block, which is never exceeded.
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	// Y is the bottom of the tall header and Height its extent upwards.
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Options configures [Plan].
type Options struct {
	Measurer Measurer
	Fit      FitOptions
}

// Header is the planned analysis-column header of one document.
type Header struct {
	Columns []Column      `json:"columns"`
	Bounds  []float64     `json:"bounds"`
	Fits    []VerticalFit `json:"fits"`
	Skipped []string      `json:"skipped,omitempty"`
	// Cramped is set when columns fall below MinColumnWidth.
	Cramped  bool           `json:"cramped,omitempty"`
	Geometry HeaderGeometry `json:"geometry"`

	cat        *catalog.Catalog
	byCategory map[string][]int
}

// Plan builds the columns for samples, allocates their widths inside g and
// fits each column's vertical text. Equal inputs always give equal headers.
func Plan(cat *catalog.Catalog, samples []coc.Sample, g HeaderGeometry, opts Options) *Header {
	fitOpts := opts.Fit.withDefaults()
	m := opts.Measurer
	if m == nil {
		m = FixedMeasurer{}
	}

	set := BuildColumns(cat, samples, BuildOptions{
		Measurer: m,
		FontSize: fitOpts.FontSize,
		Budget:   g.Height - fitOpts.Margin,
	})
	bounds := Allocate(g.X, g.Width, len(set.Columns))

	h := &Header{
		Columns:    set.Columns,
		Bounds:     bounds,
		Skipped:    set.Skipped,
		Cramped:    Cramped(bounds, MinColumnWidth),
		Geometry:   g,
		cat:        cat,
		byCategory: make(map[string][]int),
	}
	for i, col := range set.Columns {
		box := Box{X: bounds[i], Y: g.Y, W: bounds[i+1] - bounds[i], H: g.Height}
		method := ""
		if col.Method != "" {
			method = "(" + col.Method + ")"
		}
		h.Fits = append(h.Fits, FitVertical(col.Label, method, box, m, fitOpts))
		if !col.Placeholder() {
			h.byCategory[col.Category] = append(h.byCategory[col.Category], i)
		}
	}
	return h
}

// Box returns the rectangle of column i spanning the header height.
func (h *Header) Box(i int) Box {
	return Box{X: h.Bounds[i], Y: h.Geometry.Y, W: h.Bounds[i+1] - h.Bounds[i], H: h.Geometry.Height}
}

// ColumnsFor returns the indexes of every column of a category, resolved
// through the catalogue like sample keys are.
func (h *Header) ColumnsFor(category string) []int {
	if h.cat == nil {
		return nil
	}
	c, ok := h.cat.Lookup(category)
	if !ok {
		return nil
	}
	return h.byCategory[c.Name]
}

// Marks returns, in ascending order, the columns that get an "X" in the row
// of sample s: every column of a selected category that covers at least one
// of the analytes the sample selected in it.
func (h *Header) Marks(s coc.Sample) []int {
	marked := make(map[int]bool)
	for key, analytes := range s.Analyses {
		if len(analytes) == 0 {
			continue
		}
		for _, i := range h.ColumnsFor(key) {
			for _, a := range analytes {
				if h.Columns[i].Covers(strings.TrimSpace(a)) {
					marked[i] = true
					break
				}
			}
		}
	}
	out := make([]int, 0, len(marked))
	for i := range marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
