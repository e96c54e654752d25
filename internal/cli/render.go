package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/pipeline"
)

// stdoutPath makes -o write to standard output.
const stdoutPath = "-"

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output      string // output file, or base path when several formats are written
	formats     string // comma-separated: pdf, json
	logo        string // header logo (PNG or JPEG); overrides logo_path
	catalog     string // catalogue file; overrides catalog_path
	rowsPerPage int    // sample rows per form page; overrides rows_per_page
	noCache     bool
	refresh     bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <form.json|form.yaml>",
		Short: "Render the Chain-of-Custody PDF for a form file",
		Long: `Render the Chain-of-Custody PDF for a form file.

The form lists client and project details and one entry per sample with the
analytes requested, grouped by catalogue category:

  samples:
    - sample_id: WELL-01
      matrix: DW
      analyses:
        Metals: [Lead, Copper]

With --format json the analysis-column plan is written as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path for several formats, or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatPDF, "output format(s): pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "header logo image (default logo_path)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalogue file, .toml or .yaml (default built-in)")
	cmd.Flags().IntVar(&opts.rowsPerPage, "rows", 0, "sample rows per form page (default rows_per_page)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.output == stdoutPath && len(formats) > 1 {
		return fmt.Errorf("-o - writes a single format, got %s", strings.Join(formats, ","))
	}

	f, err := coc.LoadForm(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d samples", input, len(f.Samples))

	runner, err := c.newRunner(ctx, pick(opts.catalog, c.cfg.CatalogPath), opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rows := opts.rowsPerPage
	if rows == 0 {
		rows = c.cfg.RowsPerPage
	}
	logo := c.loadLogo(pick(opts.logo, c.cfg.LogoPath))

	prog := newProgress(logger)
	spin := newSpinner(ctx, "Rendering "+filepath.Base(input))
	if !c.verbose {
		spin.Start()
	}
	res, err := runner.Execute(ctx, pipeline.Options{
		Form:        f,
		Formats:     formats,
		RowsPerPage: rows,
		Refresh:     opts.refresh,
		Logo:        logo,
		LogoName:    filepath.Base(pick(opts.logo, c.cfg.LogoPath)),
		Now:         time.Now(),
		Logger:      logger,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", res.COCID))

	for _, format := range formats {
		path := outputPath(opts.output, input, format, len(formats))
		if err := writeArtifact(path, res.Artifacts[format]); err != nil {
			return err
		}
		if path != stdoutPath {
			printFile(path)
		}
	}
	printStats(res.Stats.Samples, res.Stats.Columns, res.Pages, res.CacheHit)
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	return nil
}

// outputPath derives where format is written. Without -o the input name is
// reused with the format's extension; the JSON plan of a multi-format run
// gets a ".columns" infix.
func outputPath(output, input, format string, n int) string {
	if output == stdoutPath {
		return stdoutPath
	}
	if output != "" && n == 1 {
		return output
	}
	base := basePath(output, input)
	if format == pipeline.FormatJSON {
		return base + ".columns.json"
	}
	return base + "." + format
}

// basePath strips a known format extension from output, or the extension
// of input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if path == stdoutPath {
		_, err := os.Stdout.Write(data)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
