// Package form draws the KELP Chain-of-Custody form on a render.Canvas.
//
// A document is one or more form pages followed by an instructions page.
// Each form page holds [Options.RowsPerPage] sample rows under the same
// analysis-column header, which is planned once per document with
// layout.Plan so every page shows identical columns.
//
//	c := render.NewPDF()
//	res, err := form.Render(c, f, catalog.Default(), form.Options{Logo: logo, LogoName: "kelp_logo.png"})
//	pdf, err := c.Bytes()
package form

import (
	"bytes"
	"slices"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/render"
)

// DefaultRowsPerPage is the number of sample rows on one form page.
const DefaultRowsPerPage = 10

// DocumentInfo identifies the controlled form revision printed in the footer.
type DocumentInfo struct {
	ID        string `json:"id" mapstructure:"id"`
	Version   string `json:"version" mapstructure:"version"`
	Effective string `json:"effective" mapstructure:"effective"`
}

// DefaultDocument is the current revision of the form.
var DefaultDocument = DocumentInfo{
	ID:        "KELP-QMS-FORM-001",
	Version:   "1.1",
	Effective: "February 19, 2026",
}

// Title is the document title written to the PDF metadata.
const Title = "KELP Chain-of-Custody"

// Options configures Render.
type Options struct {
	// Logo holds the image drawn in the page header. Empty skips it.
	Logo []byte
	// LogoName carries the image file name; its extension selects the type.
	LogoName    string
	RowsPerPage int
	Document    DocumentInfo
	Fit         layout.FitOptions
}

func (o Options) withDefaults() Options {
	if o.RowsPerPage <= 0 {
		o.RowsPerPage = DefaultRowsPerPage
	}
	o.RowsPerPage = min(o.RowsPerPage, MaxRowsPerPage)
	if o.Document.ID == "" {
		o.Document = DefaultDocument
	}
	if o.LogoName == "" {
		o.LogoName = "logo.png"
	}
	return o
}

// Result describes a rendered document.
type Result struct {
	Header *layout.Header
	// Pages counts every page including the instructions page.
	Pages int
	// Warnings lists problems that were worked around, such as a logo
	// that could not be decoded.
	Warnings []string
}

// Geometry returns the analysis-column block of the form page.
func Geometry() layout.HeaderGeometry {
	return layout.HeaderGeometry{
		X:      acol,
		Width:  analysisWidth,
		Y:      tallBottom,
		Height: tallTop - tallBottom,
	}
}

// Plan computes the analysis-column header for f as Render would draw it.
func Plan(f *coc.Form, cat *catalog.Catalog, m layout.Measurer, fit layout.FitOptions) *layout.Header {
	return layout.Plan(cat, f.Samples, Geometry(), layout.Options{Measurer: m, Fit: fit})
}

// FormPages returns the number of form pages needed for n samples.
func FormPages(n, rowsPerPage int) int {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}
	if n <= rowsPerPage {
		return 1
	}
	return (n + rowsPerPage - 1) / rowsPerPage
}

// Render draws the complete document for f onto c.
func Render(c render.Canvas, f *coc.Form, cat *catalog.Catalog, opts Options) (*Result, error) {
	if c == nil || f == nil || cat == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render: canvas, form and catalogue are required")
	}
	opts = opts.withDefaults()

	header := Plan(f, cat, render.FontMeasurer{Canvas: c}, opts.Fit)
	formPages := FormPages(len(f.Samples), opts.RowsPerPage)
	res := &Result{Header: header, Pages: formPages + 1}

	c.SetTitle(Title)
	p := &page{c: c, f: f, cat: cat, header: header, opts: opts, total: res.Pages}
	for i := 0; i < formPages; i++ {
		c.AddPage()
		p.number = i + 1
		lo := i * opts.RowsPerPage
		hi := min(lo+opts.RowsPerPage, len(f.Samples))
		if w := p.drawForm(f.Samples[lo:hi], lo); w != "" && !slices.Contains(res.Warnings, w) {
			res.Warnings = append(res.Warnings, w)
		}
	}

	c.AddPage()
	p.number = res.Pages
	p.drawInstructions()
	return res, nil
}

// logo draws the header logo, returning a warning when it is unusable.
func (p *page) logo() string {
	if len(p.opts.Logo) == 0 {
		return ""
	}
	err := p.c.Image(p.opts.LogoName, bytes.NewReader(p.opts.Logo), lm+3, hdrBottom+3, 80, hdrTop-hdrBottom-6)
	if err != nil {
		return "logo skipped: " + err.Error()
	}
	return ""
}
