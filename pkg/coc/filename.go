package coc

import (
	"strings"
	"time"
	"unicode"

	"github.com/kelplab/custody/pkg/errors"
)

const maxCompanyChars = 20

// SanitizeFilename reduces s to characters safe in a download filename:
// letters, digits, '-' and '_'. Spaces become underscores and everything
// else is dropped.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DownloadName returns KELP_CoC_{company}_{YYYYMMDD_HHMMSS}.pdf, with the
// company truncated to 20 characters and "KELP" used when it is blank.
// The result is checked with errors.ValidateFilename before it is returned.
func DownloadName(f *Form, now time.Time) (string, error) {
	company := SanitizeFilename(f.Client.Company)
	if len(company) > maxCompanyChars {
		company = company[:maxCompanyChars]
	}
	if company == "" {
		company = "KELP"
	}
	name := "KELP_CoC_" + company + "_" + now.Format("20060102_150405") + ".pdf"
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}
