// Package pipeline turns a Chain-of-Custody form into its artifacts.
//
// The CLI and the web UI share this package so that both produce the same
// bytes for the same input. A run has two stages:
//
//  1. Plan: build the analysis columns and fit their vertical labels
//  2. Render: draw the PDF document and/or export the column plan as JSON
//
// Artifacts are cached under keys derived from the content hashes of the
// form, the catalogue and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, catalog.Default(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Form:    f,
//	    Formats: []string{pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts[pipeline.FormatPDF]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kelplab/custody/pkg/cache"
	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/errors"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/render/form"
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
}

// DefaultLogoName is used when Options.Logo is set without a name.
const DefaultLogoName = "kelp_logo.png"

// Options configures one pipeline run.
type Options struct {
	Form *coc.Form `json:"form"`

	Formats     []string `json:"formats,omitempty"`
	RowsPerPage int      `json:"rows_per_page,omitempty"`
	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logo     []byte      `json:"-"`
	LogoName string      `json:"-"`
	Now      time.Time   `json:"-"`
	Logger   *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// COCID is the identifier printed on the document, assigned when the
	// submitted form had none.
	COCID     string
	Header    *layout.Header
	Artifacts map[string][]byte
	Pages     int
	Warnings  []string
	Stats     Stats
	// CacheHit is set when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Samples    int
	Columns    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	return out, ValidateFormats(out)
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it again after success is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Form == nil {
		return errors.New(errors.ErrCodeInvalidInput, "form is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.RowsPerPage <= 0 {
		o.RowsPerPage = form.DefaultRowsPerPage
	}
	if len(o.Logo) > 0 && o.LogoName == "" {
		o.LogoName = DefaultLogoName
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPDF {
		opts.RowsPerPage = o.RowsPerPage
		if len(o.Logo) > 0 {
			opts.LogoHash = cache.Hash(o.Logo)
		}
	}
	return opts
}
