package layout

// MinColumnWidth is the narrowest analysis column, in points, that still
// holds a rotated label line beside its method run.
const MinColumnWidth = 18.0

// Allocate divides total into n equal columns starting at start and returns
// the n+1 column boundaries. The last boundary is exactly start+total.
// n below 1 is treated as 1. The total is never stretched: when the columns
// come out narrower than [MinColumnWidth] the text fitter degrades instead.
func Allocate(start, total float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	unit := total / float64(n)
	bounds := make([]float64, n+1)
	for i := 0; i < n; i++ {
		bounds[i] = start + float64(i)*unit
	}
	bounds[n] = start + total
	return bounds
}

// Cramped reports whether any column between bounds is narrower than min.
func Cramped(bounds []float64, min float64) bool {
	for i := 1; i < len(bounds); i++ {
		if bounds[i]-bounds[i-1] < min-eps {
			return true
		}
	}
	return false
}

// Widths returns the width of each column between bounds.
func Widths(bounds []float64) []float64 {
	if len(bounds) < 2 {
		return nil
	}
	out := make([]float64, len(bounds)-1)
	for i := range out {
		out[i] = bounds[i+1] - bounds[i]
	}
	return out
}

const eps = 1e-9
