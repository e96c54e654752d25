package form

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kelplab/custody/pkg/catalog"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/render"
)

func testForm(n int) *coc.Form {
	f := &coc.Form{
		COCID:    "KELP-COC-260219-1234",
		Client:   coc.Client{Company: "Acme Water", Contact: "J. Doe", Email: "lab@acme.test"},
		Project:  coc.Project{Name: "Well 7", Number: "P-42"},
		Sampling: coc.Sampling{TimeZone: "PT", Rush: "2 Day", Reportable: "Yes"},
		Receipt:  coc.Receipt{DeliveryMethod: "fedex"},
	}
	for i := 0; i < n; i++ {
		f.Samples = append(f.Samples, coc.Sample{
			ID:       fmt.Sprintf("WELL-%02d", i+1),
			Matrix:   "dw",
			CompGrab: "Grab",
			Analyses: coc.Analyses{"Metals": {"Lead", "Copper"}},
		})
	}
	return f
}

func texts(ops []render.Op, s string) []render.Op {
	var out []render.Op
	for _, op := range ops {
		if op.Kind == render.OpText && op.Text == s {
			out = append(out, op)
		}
	}
	return out
}

func TestGeometry(t *testing.T) {
	g := Geometry()
	if g.X != 476 || g.Width != 184 {
		t.Errorf("block x=%v width=%v, want 476 and 184", g.X, g.Width)
	}
	if g.Y+g.Height != clientBottom || g.Height <= 190 {
		t.Errorf("block y=%v height=%v", g.Y, g.Height)
	}
	if kelpStripX != g.X+g.Width || pncX+pncW != rm {
		t.Error("analysis block and sidebar do not tile the right edge")
	}
}

func TestFormPages(t *testing.T) {
	tests := []struct{ n, rows, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := FormPages(tt.n, tt.rows); got != tt.want {
			t.Errorf("FormPages(%d, %d) = %d, want %d", tt.n, tt.rows, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	r := render.NewRecorder()
	res, err := Render(r, testForm(3), catalog.Default(), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Pages != 2 || r.PageCount() != 2 {
		t.Fatalf("pages = %d / %d, want 2", res.Pages, r.PageCount())
	}
	if r.Title != Title {
		t.Errorf("title = %q", r.Title)
	}
	if len(r.Find(render.OpText, "CHAIN-OF-CUSTODY RECORD")) != 1 {
		t.Error("missing form title")
	}
	if len(r.Find(render.OpText, "Chain of Custody (COC) Instructions")) != 1 {
		t.Error("missing instructions page")
	}
	if ops := r.Find(render.OpText, "Page 2 of 2"); len(ops) != 1 || ops[0].Page != 2 {
		t.Errorf("footer ops = %+v", ops)
	}
	if len(r.Find(render.OpText, "COC ID: KELP-COC-260219-1234")) != 2 {
		t.Error("footer COC ID should be on every page")
	}

	rot := r.Find(render.OpRotated, "Metals (Pb, Cu)")
	if len(rot) != 1 {
		t.Fatalf("rotated label ops = %+v", rot)
	}
	if m := r.Find(render.OpRotated, "(EPA 200.8)"); len(m) != 1 {
		t.Errorf("method ops = %+v", m)
	}
	if x := texts(r.OnPage(1), "X"); len(x) != 3 {
		t.Errorf("X marks = %d, want one per sample", len(x))
	}
	if ids := r.Find(render.OpText, "WELL-0"); len(ids) != 3 {
		t.Errorf("sample id ops = %d", len(ids))
	}
	if m := texts(r.OnPage(1), "DW"); len(m) != 3 {
		t.Errorf("matrix should be upper-cased, got %d DW cells", len(m))
	}
}

func TestRenderCheckboxes(t *testing.T) {
	r := render.NewRecorder()
	if _, err := Render(r, testForm(1), catalog.Default(), Options{}); err != nil {
		t.Fatal(err)
	}
	checked := 0
	for _, op := range r.Ops {
		if op.Kind == render.OpCheckbox && op.Checked {
			checked++
		}
	}
	// Time zone, rush, reportable and delivery method.
	if checked != 4 {
		t.Errorf("checked boxes = %d, want 4", checked)
	}
}

func TestRenderPaginates(t *testing.T) {
	r := render.NewRecorder()
	res, err := Render(r, testForm(12), catalog.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 3 {
		t.Fatalf("pages = %d, want 3", res.Pages)
	}
	if x := texts(r.OnPage(1), "X"); len(x) != 10 {
		t.Errorf("page 1 marks = %d, want 10", len(x))
	}
	if x := texts(r.OnPage(2), "X"); len(x) != 2 {
		t.Errorf("page 2 marks = %d, want 2", len(x))
	}
	if ids := texts(r.OnPage(2), "WELL-11"); len(ids) != 1 {
		t.Error("sample 11 should be on page 2")
	}
	// Both form pages carry the same header.
	if rot := r.Find(render.OpRotated, "Metals (Pb, Cu)"); len(rot) != 2 || rot[0].X != rot[1].X {
		t.Errorf("header ops = %+v", rot)
	}
	if n := texts(r.OnPage(2), "12"); len(n) != 1 {
		t.Error("row numbers should continue across pages")
	}
}

func TestRenderRowsPerPage(t *testing.T) {
	r := render.NewRecorder()
	res, err := Render(r, testForm(12), catalog.Default(), Options{RowsPerPage: 6})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 3 {
		t.Errorf("pages = %d, want 3", res.Pages)
	}
}

func TestRenderStaysOnPage(t *testing.T) {
	r := render.NewRecorder()
	if _, err := Render(r, testForm(10), catalog.Default(), Options{}); err != nil {
		t.Fatal(err)
	}
	for _, op := range r.Ops {
		if op.X < 0 || op.Y < 0 || op.X > render.PageWidth || op.Y > render.PageHeight {
			t.Errorf("op outside page: %+v", op)
		}
		if op.Kind == render.OpRotated && op.Y+op.H > tallTop+1e-9 {
			t.Errorf("rotated text overflows header: %+v", op)
		}
	}
}

func TestRenderNoSamples(t *testing.T) {
	r := render.NewRecorder()
	res, err := Render(r, &coc.Form{}, catalog.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Header.Columns) != 1 || !res.Header.Columns[0].Placeholder() {
		t.Errorf("columns = %+v, want one placeholder", res.Header.Columns)
	}
	if x := texts(r.Ops, "X"); len(x) != 0 {
		t.Errorf("unexpected marks: %+v", x)
	}
}

func TestRenderRejectsMissingInput(t *testing.T) {
	_, err := Render(render.NewRecorder(), nil, catalog.Default(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

type failingImages struct{ *render.Recorder }

func (failingImages) Image(string, io.Reader, float64, float64, float64, float64) error {
	return errors.New(errors.ErrCodeRender, "decode failed")
}

func TestRenderLogo(t *testing.T) {
	r := render.NewRecorder()
	res, err := Render(r, testForm(1), catalog.Default(), Options{Logo: []byte("png"), LogoName: "kelp_logo.png"})
	if err != nil {
		t.Fatal(err)
	}
	if imgs := r.Find(render.OpImage, "kelp_logo.png"); len(imgs) != 1 {
		t.Errorf("image ops = %+v", imgs)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v", res.Warnings)
	}

	bad := failingImages{render.NewRecorder()}
	res, err = Render(bad, testForm(12), catalog.Default(), Options{Logo: []byte("png")})
	if err != nil {
		t.Fatalf("a broken logo must not fail the render: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "logo") {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestRenderPDF(t *testing.T) {
	c := render.NewPDF(render.WithCreationDate(time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)))
	res, err := Render(c, testForm(3), catalog.Default(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := c.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("not a pdf")
	}
	if c.PageCount() != res.Pages {
		t.Errorf("pages = %d, want %d", c.PageCount(), res.Pages)
	}
	for i, b := range res.Header.Bounds[1:] {
		if w := b - res.Header.Bounds[i]; math.IsNaN(w) || w <= 0 {
			t.Errorf("column %d width = %v", i, w)
		}
	}
}
