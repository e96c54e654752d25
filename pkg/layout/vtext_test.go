package layout

import (
	"math"
	"strings"
	"testing"
)

func TestFitVerticalSingleLine(t *testing.T) {
	box := Box{X: 100, Y: 10, W: 20, H: 100}
	fit := FitVertical("Metals (Al, As, Pb)", "(EPA 200.8)", box, FixedMeasurer{}, FitOptions{})

	if len(fit.Lines) != 1 || fit.Wrapped || fit.Crowded {
		t.Fatalf("fit = %+v", fit)
	}
	if fit.FontSize != DefaultFontSize {
		t.Errorf("FontSize = %v, want %v", fit.FontSize, DefaultFontSize)
	}
	if fit.Method == nil || fit.Method.Size > fit.FontSize {
		t.Fatalf("method = %+v", fit.Method)
	}
	if fit.Method.X >= fit.Lines[0].X {
		t.Error("method should sit left of the label")
	}
	if fit.Lines[0].Y != box.Y+DefaultMargin/2 {
		t.Errorf("Y = %v", fit.Lines[0].Y)
	}
}

func TestFitVerticalShrinks(t *testing.T) {
	// 20 runes at 0.5em: 55pt at 5.5, 49pt at 4.9, against a 50pt budget.
	box := Box{W: 30, H: 58}
	fit := FitVertical(strings.Repeat("x", 20), "", box, FixedMeasurer{}, FitOptions{})

	if len(fit.Lines) != 1 || fit.Wrapped {
		t.Fatalf("expected a single shrunk line, got %+v", fit)
	}
	if math.Abs(fit.FontSize-4.9) > 1e-6 {
		t.Errorf("FontSize = %v, want 4.9", fit.FontSize)
	}
}

func TestFitVerticalWraps(t *testing.T) {
	box := Box{X: 0, Y: 0, W: 60, H: 30}
	label := "aaaa bbbb cccc dddd eeee ffff"
	fit := FitVertical(label, "", box, FixedMeasurer{}, FitOptions{})

	if !fit.Wrapped || len(fit.Lines) != 6 {
		t.Fatalf("lines = %d wrapped = %v", len(fit.Lines), fit.Wrapped)
	}
	if fit.Crowded {
		t.Error("six lines fit across 60pt without crowding")
	}
	var words []string
	for i, l := range fit.Lines {
		words = append(words, l.Text)
		if w := (FixedMeasurer{}).StringWidth(l.Text, Bold, l.Size); w > box.H-DefaultMargin {
			t.Errorf("line %q is %.1fpt", l.Text, w)
		}
		if i > 0 && math.Abs(fit.Lines[i-1].X-l.X-fit.LineGap) > 1e-9 {
			t.Errorf("line %d not spaced by LineGap", i)
		}
	}
	if strings.Join(words, " ") != label {
		t.Errorf("wrapped text = %q", strings.Join(words, " "))
	}
}

func TestFitVerticalStaysInsideColumn(t *testing.T) {
	label := "Packages (Essential Home Water Test, Complete Homeowner Package, Conventional Loan Testing Package)"
	for _, w := range []float64{12, 18, 25, 40} {
		box := Box{X: 50, Y: 0, W: w, H: 60}
		fit := FitVertical(label, "(Multiple)", box, FixedMeasurer{}, FitOptions{})

		runs := append([]Run(nil), fit.Lines...)
		if fit.Method != nil {
			runs = append(runs, *fit.Method)
		}
		for _, r := range runs {
			if r.X > box.X+box.W+1e-9 {
				t.Errorf("width %v: run %q baseline %.2f beyond right border", w, r.Text, r.X)
			}
			if !fit.Crowded && r.X-ascent*r.Size < box.X-1e-9 {
				t.Errorf("width %v: run %q crosses left border", w, r.Text)
			}
		}
		if fit.FontSize < DefaultMinFontSize-1e-9 {
			t.Errorf("width %v: FontSize %v below floor", w, fit.FontSize)
		}
	}
}

func TestFitVerticalDegradesWithoutFailing(t *testing.T) {
	box := Box{W: 3, H: 12}
	fit := FitVertical("Supercalifragilistic expialidocious analyte", "(EPA 1)", box, FixedMeasurer{}, FitOptions{})
	if !fit.Crowded {
		t.Error("expected a crowded fit")
	}
	if len(fit.Lines) == 0 {
		t.Error("text must still be placed")
	}
}

func TestFitVerticalEmptyLabel(t *testing.T) {
	fit := FitVertical("", "", Box{W: 20, H: 100}, nil, FitOptions{})
	if len(fit.Lines) != 0 || fit.Method != nil || fit.Crowded {
		t.Errorf("placeholder fit = %+v", fit)
	}
}

func TestFitOptionsDefaults(t *testing.T) {
	o := DefaultFitOptions()
	if o.FontSize != 5.5 || o.MinFontSize != 4.0 || o.Step != 0.3 || o.LineGap != 8.5 || o.Margin != 8 {
		t.Errorf("defaults = %+v", o)
	}
	o = FitOptions{FontSize: 3}.withDefaults()
	if o.MinFontSize != 3 {
		t.Errorf("floor above start size not clamped: %+v", o)
	}
}
