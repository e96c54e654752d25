// Package render provides the drawing backend for custody documents.
//
// # Overview
//
// Form drawing is a long sequence of absolute-coordinate calls: rectangles,
// lines, checkboxes and text runs, some rotated. This package reduces those
// calls to the [Canvas] interface so the form layout in [form] never touches
// a PDF library directly:
//
//   - [PDFCanvas] draws on a landscape US-letter page with go-pdf/fpdf
//   - [Recorder] keeps the calls in memory for tests and previews
//   - [FontMeasurer] exposes a canvas' font metrics to the layout planner
//
// Coordinates are PDF user space in points with the origin at the bottom
// left of the page, so y grows upwards. [PDFCanvas] converts to the
// top-left origin fpdf works in.
//
//	c := render.NewPDF(render.WithTitle("KELP Chain-of-Custody"))
//	c.AddPage()
//	c.Rect(18, 556, 756, 32, render.Pen{Width: 1})
//	c.TextRotated(480, 304, "Metals (Pb, Cu)", render.TextStyle{Size: 5.5, Bold: true})
//	pdf, err := c.Bytes()
//
// [form]: github.com/kelplab/custody/pkg/render/form
package render
