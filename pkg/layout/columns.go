package layout

import (
	"sort"
	"strings"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
)

// ContinuedMarker follows the category name on every column after the first
// of a split category.
const ContinuedMarker = "cont'd"

// Column is one analysis column of the custody table.
type Column struct {
	// Category is the canonical catalogue name, empty for the placeholder.
	Category string `json:"category,omitempty"`
	// Label is "{short} ({symbols})" or "{short} cont'd ({symbols})".
	Label string `json:"label"`
	// Method is the regulatory method annotation, without parentheses.
	Method string `json:"method,omitempty"`
	// Analytes lists the full analyte names the column covers, in label order.
	Analytes  []string `json:"analytes,omitempty"`
	Continued bool     `json:"continued,omitempty"`
}

// Placeholder reports whether the column is the empty slot emitted when no
// analyte was selected.
func (c Column) Placeholder() bool { return c.Category == "" }

// Covers reports whether the column lists analyte.
func (c Column) Covers(analyte string) bool {
	for _, a := range c.Analytes {
		if a == analyte {
			return true
		}
	}
	return false
}

// ColumnSet is the output of [BuildColumns].
type ColumnSet struct {
	Columns []Column `json:"columns"`
	// Skipped holds sample category keys that matched no catalogue category.
	Skipped []string `json:"skipped,omitempty"`
}

// BuildOptions controls label fitting in [BuildColumns].
type BuildOptions struct {
	Measurer Measurer
	// FontSize is the vertical label size; labels are measured bold.
	FontSize float64
	// Budget is the longest label, in points, one column can hold on a
	// single line: the header height less its margin.
	Budget float64
}

func (o BuildOptions) withDefaults() BuildOptions {
	if o.Measurer == nil {
		o.Measurer = FixedMeasurer{}
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	return o
}

// selection accumulates one category's analytes across samples.
type selection struct {
	analytes []string
	seen     map[string]bool
	matrices map[string]bool
}

// BuildColumns turns the samples' analyte selections into analysis columns.
//
// Analytes are unioned per category in first-seen order and categories are
// emitted in catalogue order. A category whose label does not fit the budget
// is split greedily into continuation columns; an analyte is never divided.
// Sample keys that resolve to no category are skipped and reported. When no
// analyte is selected at all a single placeholder column is returned.
func BuildColumns(cat *catalog.Catalog, samples []coc.Sample, opts BuildOptions) ColumnSet {
	opts = opts.withDefaults()

	selected := make(map[int]*selection)
	var skipped []string
	skippedSeen := make(map[string]bool)

	for _, s := range samples {
		keys := make([]string, 0, len(s.Analyses))
		for k := range s.Analyses {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			analytes := s.Analyses[key]
			if len(analytes) == 0 {
				continue
			}
			idx, ok := cat.Index(key)
			if !ok {
				if !skippedSeen[key] {
					skippedSeen[key] = true
					skipped = append(skipped, key)
				}
				continue
			}
			sel := selected[idx]
			if sel == nil {
				sel = &selection{seen: make(map[string]bool), matrices: make(map[string]bool)}
				selected[idx] = sel
			}
			for _, a := range analytes {
				a = strings.TrimSpace(a)
				if a == "" || sel.seen[a] {
					continue
				}
				sel.seen[a] = true
				sel.analytes = append(sel.analytes, a)
			}
			if m := strings.ToUpper(strings.TrimSpace(s.Matrix)); m != "" {
				sel.matrices[m] = true
			}
		}
	}

	var columns []Column
	for idx, c := range cat.Categories() {
		sel := selected[idx]
		if sel == nil || len(sel.analytes) == 0 {
			continue
		}
		method := cat.MethodFor(c.Name, sortedKeys(sel.matrices))
		for i, chunk := range chunkAnalytes(cat, c.ShortName(), sel.analytes, opts) {
			columns = append(columns, Column{
				Category:  c.Name,
				Label:     formatLabel(c.ShortName(), i > 0, symbols(cat, chunk)),
				Method:    method,
				Analytes:  chunk,
				Continued: i > 0,
			})
		}
	}

	if len(columns) == 0 {
		columns = []Column{{}}
	}
	return ColumnSet{Columns: columns, Skipped: skipped}
}

// chunkAnalytes packs analytes, in order, into as few labels as fit the
// budget. A lone analyte that overflows still gets its own chunk.
func chunkAnalytes(cat *catalog.Catalog, short string, analytes []string, opts BuildOptions) [][]string {
	fits := func(continued bool, chunk []string) bool {
		label := formatLabel(short, continued, symbols(cat, chunk))
		return opts.Budget <= 0 || opts.Measurer.StringWidth(label, Bold, opts.FontSize) <= opts.Budget+eps
	}

	if fits(false, analytes) {
		return [][]string{analytes}
	}

	var chunks [][]string
	var cur []string
	for _, a := range analytes {
		candidate := append(append([]string(nil), cur...), a)
		if len(cur) == 0 || fits(len(chunks) > 0, candidate) {
			cur = candidate
			continue
		}
		chunks = append(chunks, cur)
		cur = []string{a}
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

func formatLabel(short string, continued bool, symbols []string) string {
	var b strings.Builder
	b.WriteString(short)
	if continued {
		b.WriteString(" " + ContinuedMarker)
	}
	b.WriteString(" (")
	b.WriteString(strings.Join(symbols, ", "))
	b.WriteString(")")
	return b.String()
}

func symbols(cat *catalog.Catalog, analytes []string) []string {
	out := make([]string, len(analytes))
	for i, a := range analytes {
		out[i] = cat.Symbol(a)
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
