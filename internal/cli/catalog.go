package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kelplab/custody/pkg/catalog"
)

func (c *CLI) catalogCommand() *cobra.Command {
	var catalogPath string

	load := func() (*catalog.Catalog, error) {
		return loadCatalog(pick(catalogPath, c.cfg.CatalogPath))
	}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the analyte categories and their methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			writeCatalogTable(c.out, cat)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalogue file, .toml or .yaml (default built-in)")

	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the catalogue as TOML, ready to edit and pass to --catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			return cat.EncodeTOML(c.out)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Browse categories, analytes and symbols interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := load()
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newCatalogModel(cat), tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	})

	return cmd
}

// writeCatalogTable lists every category with its short name, analyte
// count and methods.
func writeCatalogTable(w io.Writer, cat *catalog.Catalog) {
	var rows [][]string
	for _, cg := range cat.Categories() {
		rows = append(rows, []string{
			cg.Name,
			cg.ShortName(),
			fmt.Sprint(len(cg.Analytes)),
			strings.Join(cg.Potable, ", "),
			strings.Join(cg.NonPotable, ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Category", "Short", "Analytes", "Potable", "Non-potable").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorGray).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}
