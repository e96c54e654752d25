// Package cli implements the custody command-line interface.
//
// The CLI renders Chain-of-Custody PDFs from form files, previews the
// analysis-column plan, inspects the analyte catalogue, manages the render
// cache and runs the web UI. It is built on cobra and logs with
// charmbracelet/log.
//
// # Commands
//
//   - render: Generate the PDF (and optionally the JSON column plan) for a form file
//   - columns: Print the analysis columns a form would produce
//   - catalog: List, export or interactively browse the analyte catalogue
//   - serve: Run the web UI
//   - cache: Clear or locate the render cache
//
// # Configuration
//
// Settings come from ~/.custody/config.yaml (or --config) and CUSTODY_*
// environment variables; see package config.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with "HH:MM:SS.ms"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 pages (412ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() when none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
