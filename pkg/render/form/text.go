package form

import (
	"strings"

	"github.com/kelplab/custody/pkg/render"
)

// Smallest size fitted text is shrunk to before it is allowed to overflow.
const minTextSize = 4.0

// fitSize returns the largest size not above st.Size, in 0.3pt steps, at
// which s is no wider than maxW.
func fitSize(c render.Canvas, s string, st render.TextStyle, maxW float64) float64 {
	size := st.Size
	for size > minTextSize && c.StringWidth(s, render.TextStyle{Size: size, Bold: st.Bold}) > maxW {
		size = max(minTextSize, size-0.3)
	}
	return size
}

// fit draws s at (x, y), shrinking it to stay within maxW.
func fit(c render.Canvas, x, y float64, s string, st render.TextStyle, maxW float64) {
	if s == "" {
		return
	}
	st.Size = fitSize(c, s, st, maxW)
	c.Text(x, y, s, st)
}

// wrapText breaks s into lines no wider than w. Explicit newlines are kept.
func wrapText(c render.Canvas, s string, w float64, st render.TextStyle) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		var cur string
		for _, word := range strings.Fields(para) {
			test := word
			if cur != "" {
				test = cur + " " + word
			}
			if cur == "" || c.StringWidth(test, st) <= w {
				cur = test
				continue
			}
			lines = append(lines, cur)
			cur = word
		}
		lines = append(lines, cur)
	}
	return lines
}

// chosen reports whether value selects option, ignoring case and spacing.
func chosen(value, option string) bool {
	return strings.EqualFold(strings.TrimSpace(value), option)
}

// short truncates s to n runes.
func short(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
