package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/coc"
	"github.com/kelplab/custody/pkg/layout"
	"github.com/kelplab/custody/pkg/pipeline"
)

func (c *CLI) columnsCommand() *cobra.Command {
	var catalogPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "columns <form.json|form.yaml>",
		Short: "Show the analysis columns a form produces",
		Long: `Show the analysis columns a form produces: one row per column with its label,
method annotation and the font size the label was fitted at.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runColumns(cmd.Context(), args[0], pick(catalogPath, c.cfg.CatalogPath), asJSON)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalogue file, .toml or .yaml (default built-in)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

func (c *CLI) runColumns(ctx context.Context, input, catalogPath string, asJSON bool) error {
	logger := loggerFromContext(ctx)

	f, err := coc.LoadForm(input)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	h := pipeline.Plan(f, cat)
	logger.Debugf("Planned %d columns for %d samples", len(h.Columns), len(f.Samples))

	if asJSON {
		data, err := pipeline.MarshalPlan(f, cat, h)
		if err != nil {
			return err
		}
		_, err = c.out.Write(data)
		return err
	}
	writeColumnsTable(c.out, h)
	if len(h.Skipped) > 0 {
		printWarning("Unknown categories ignored: %s", strings.Join(h.Skipped, ", "))
	}
	if h.Cramped {
		printWarning("Columns are narrower than %.0fpt", layout.MinColumnWidth)
	}
	return nil
}

// writeColumnsTable renders the plan as a bordered table.
func writeColumnsTable(w io.Writer, h *layout.Header) {
	widths := layout.Widths(h.Bounds)
	rows := make([][]string, len(h.Columns))
	for i, col := range h.Columns {
		fit := h.Fits[i]
		size := fmt.Sprintf("%.1f", fit.FontSize)
		if fit.Wrapped {
			size += fmt.Sprintf(" ×%d", len(fit.Lines))
		}
		rows[i] = []string{
			fmt.Sprint(i + 1),
			col.Label,
			col.Method,
			size,
			fmt.Sprintf("%.1f", widths[i]),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "Label", "Method", "Size", "Width").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row >= 0 && row < len(h.Fits) && h.Fits[row].Crowded && col == 3 {
				return base.Inherit(styleCramped)
			}
			if col == 0 || col == 3 || col == 4 {
				return base.Foreground(colorGray)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}
