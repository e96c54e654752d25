package coc

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

// IDPrefix starts every custody document identifier.
const IDPrefix = "KELP-COC-"

var idPattern = regexp.MustCompile(`^KELP-COC-\d{6}-\d{4}$`)

// NewID returns an identifier of the form KELP-COC-YYMMDD-NNNN where NNNN is
// a random number in [1000, 9999]. A nil rng uses the global source.
func NewID(now time.Time, rng *rand.Rand) string {
	var seq int
	if rng != nil {
		seq = 1000 + rng.IntN(9000)
	} else {
		seq = 1000 + rand.IntN(9000)
	}
	return fmt.Sprintf("%s%s-%d", IDPrefix, now.Format("060102"), seq)
}

// ValidID reports whether id has the KELP-COC-YYMMDD-NNNN shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// EnsureID assigns a new identifier when the form has none and returns the
// identifier in effect.
func (f *Form) EnsureID(now time.Time, rng *rand.Rand) string {
	f.COCID = strings.TrimSpace(f.COCID)
	if f.COCID == "" {
		f.COCID = NewID(now, rng)
	}
	return f.COCID
}
