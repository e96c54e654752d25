package render

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kelplab/custody/pkg/errors"
)

const hairline = 0.3

// PDFOption configures a PDFCanvas.
type PDFOption func(*pdfConfig)

type pdfConfig struct {
	title    string
	creator  string
	created  time.Time
	compress bool
}

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption {
	return func(c *pdfConfig) { c.title = title }
}

// WithCreator sets the document creator metadata.
func WithCreator(creator string) PDFOption {
	return func(c *pdfConfig) { c.creator = creator }
}

// WithCreationDate fixes the creation timestamp. Documents rendered with the
// same date and input are byte-identical.
func WithCreationDate(t time.Time) PDFOption {
	return func(c *pdfConfig) { c.created = t }
}

// WithCompression toggles stream compression (on by default).
func WithCompression(on bool) PDFOption {
	return func(c *pdfConfig) { c.compress = on }
}

// PDFCanvas implements Canvas with go-pdf/fpdf on landscape letter pages
// using the core Helvetica fonts. UTF-8 text is translated to cp1252.
type PDFCanvas struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	pages int
}

// NewPDF returns an empty PDF canvas.
func NewPDF(opts ...PDFOption) *PDFCanvas {
	cfg := pdfConfig{creator: "custody", compress: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	pdf := fpdf.New("L", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.compress)
	pdf.SetCreator(cfg.creator, true)
	pdf.SetCatalogSort(true)
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
		pdf.SetModificationDate(cfg.created)
	}
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	pdf.SetFont("Helvetica", "", 8)

	return &PDFCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// y converts a bottom-left y to fpdf's top-left space.
func (c *PDFCanvas) y(y float64) float64 { return PageHeight - y }

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
	c.pages++
}

func (c *PDFCanvas) PageCount() int { return c.pages }

func (c *PDFCanvas) SetTitle(title string) { c.pdf.SetTitle(title, true) }

func (c *PDFCanvas) pen(p Pen) {
	w := p.Width
	if w <= 0 {
		w = hairline
	}
	c.pdf.SetLineWidth(w)
	c.pdf.SetDrawColor(int(p.Color.R), int(p.Color.G), int(p.Color.B))
}

func (c *PDFCanvas) font(st TextStyle) {
	style := ""
	if st.Bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, st.Size)
	c.pdf.SetTextColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
}

func (c *PDFCanvas) Rect(x, y, w, h float64, p Pen) {
	c.pen(p)
	c.pdf.Rect(x, c.y(y+h), w, h, "D")
}

func (c *PDFCanvas) FillRect(x, y, w, h float64, fill Color) {
	c.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	c.pdf.Rect(x, c.y(y+h), w, h, "F")
}

func (c *PDFCanvas) Line(x1, y1, x2, y2 float64, p Pen) {
	c.pen(p)
	c.pdf.Line(x1, c.y(y1), x2, c.y(y2))
}

func (c *PDFCanvas) Text(x, y float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	c.font(st)
	c.pdf.Text(x, c.y(y), c.tr(s))
}

func (c *PDFCanvas) TextCentered(x, y, w float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	c.Text(x+(w-c.StringWidth(s, st))/2, y, s, st)
}

func (c *PDFCanvas) TextRight(x, y float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	c.Text(x-c.StringWidth(s, st), y, s, st)
}

func (c *PDFCanvas) TextRotated(x, y float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	c.font(st)
	c.pdf.TransformBegin()
	c.pdf.TransformRotate(90, x, c.y(y))
	c.pdf.Text(x, c.y(y), c.tr(s))
	c.pdf.TransformEnd()
}

func (c *PDFCanvas) Checkbox(x, y, size float64, checked bool) {
	c.Rect(x, y, size, size, Pen{})
	if checked {
		c.TextCentered(x, y+0.5+size*0.1, size, "X", TextStyle{Size: size, Bold: true})
	}
}

// Image registers and draws an image. A failure leaves the document usable.
func (c *PDFCanvas) Image(name string, r io.Reader, x, y, w, h float64) error {
	imgType := strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
	switch imgType {
	case "JPEG":
		imgType = "JPG"
	case "PNG", "JPG", "GIF":
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported image type %q", filepath.Ext(name))
	}

	opts := fpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	info := c.pdf.RegisterImageOptionsReader(name, opts, r)
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return errors.Wrap(errors.ErrCodeRender, err, "register image %s", name)
	}

	iw, ih := info.Extent()
	if iw <= 0 || ih <= 0 {
		return errors.New(errors.ErrCodeRender, "image %s has no extent", name)
	}
	scale := min(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale
	c.pdf.ImageOptions(name, x, c.y(y+dh), dw, dh, false, opts, 0, "")
	return nil
}

func (c *PDFCanvas) StringWidth(s string, st TextStyle) float64 {
	style := ""
	if st.Bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, st.Size)
	return c.pdf.GetStringWidth(c.tr(s))
}

// Bytes finishes the document. The canvas cannot be drawn on afterwards.
func (c *PDFCanvas) Bytes() ([]byte, error) {
	if c.pages == 0 {
		c.AddPage()
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write pdf")
	}
	return buf.Bytes(), nil
}

var _ Canvas = (*PDFCanvas)(nil)
