package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/kelplab/custody/pkg/layout"
)

// Op is one recorded drawing call.
type Op struct {
	Page    int     `json:"page"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	Text    string  `json:"text,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Bold    bool    `json:"bold,omitempty"`
	Checked bool    `json:"checked,omitempty"`
	Color   string  `json:"color,omitempty"`
}

// Op kinds.
const (
	OpRect     = "rect"
	OpFill     = "fill"
	OpLine     = "line"
	OpText     = "text"
	OpRotated  = "rotated"
	OpCheckbox = "checkbox"
	OpImage    = "image"
)

// Recorder is a Canvas that keeps every call in memory. Text is measured
// with a fixed per-rune advance, so layouts are reproducible without fonts.
type Recorder struct {
	Ops   []Op
	Title string

	Measurer layout.Measurer
	pages    int
}

// NewRecorder returns an empty recorder measuring with layout.FixedMeasurer.
func NewRecorder() *Recorder {
	return &Recorder{Measurer: layout.FixedMeasurer{}}
}

func (r *Recorder) add(op Op) {
	op.Page = r.pages
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) AddPage()              { r.pages++ }
func (r *Recorder) PageCount() int        { return r.pages }
func (r *Recorder) SetTitle(title string) { r.Title = title }

func (r *Recorder) Rect(x, y, w, h float64, p Pen) {
	r.add(Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Size: p.Width, Color: p.Color.String()})
}

func (r *Recorder) FillRect(x, y, w, h float64, fill Color) {
	r.add(Op{Kind: OpFill, X: x, Y: y, W: w, H: h, Color: fill.String()})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, p Pen) {
	r.add(Op{Kind: OpLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Size: p.Width, Color: p.Color.String()})
}

func (r *Recorder) Text(x, y float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	r.add(Op{Kind: OpText, X: x, Y: y, W: r.StringWidth(s, st), Text: s, Size: st.Size, Bold: st.Bold, Color: st.Color.String()})
}

func (r *Recorder) TextCentered(x, y, w float64, s string, st TextStyle) {
	r.Text(x+(w-r.StringWidth(s, st))/2, y, s, st)
}

func (r *Recorder) TextRight(x, y float64, s string, st TextStyle) {
	r.Text(x-r.StringWidth(s, st), y, s, st)
}

func (r *Recorder) TextRotated(x, y float64, s string, st TextStyle) {
	if s == "" {
		return
	}
	r.add(Op{Kind: OpRotated, X: x, Y: y, H: r.StringWidth(s, st), Text: s, Size: st.Size, Bold: st.Bold})
}

func (r *Recorder) Checkbox(x, y, size float64, checked bool) {
	r.add(Op{Kind: OpCheckbox, X: x, Y: y, W: size, H: size, Checked: checked})
}

func (r *Recorder) Image(name string, rd io.Reader, x, y, w, h float64) error {
	if _, err := io.Copy(io.Discard, rd); err != nil {
		return err
	}
	r.add(Op{Kind: OpImage, X: x, Y: y, W: w, H: h, Text: name})
	return nil
}

func (r *Recorder) StringWidth(s string, st TextStyle) float64 {
	m := r.Measurer
	if m == nil {
		m = layout.FixedMeasurer{}
	}
	f := layout.Regular
	if st.Bold {
		f = layout.Bold
	}
	return m.StringWidth(s, f, st.Size)
}

// Bytes returns the recorded calls as JSON.
func (r *Recorder) Bytes() ([]byte, error) {
	return json.Marshal(r.Ops)
}

// Find returns the recorded ops of a kind whose text contains substr.
func (r *Recorder) Find(kind, substr string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind && strings.Contains(op.Text, substr) {
			out = append(out, op)
		}
	}
	return out
}

// OnPage returns the ops drawn on page n (1-based).
func (r *Recorder) OnPage(n int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Page == n {
			out = append(out, op)
		}
	}
	return out
}

var _ Canvas = (*Recorder)(nil)
