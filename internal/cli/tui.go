package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kelplab/custody/pkg/catalog"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorKelp)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// catalogModel is the bubbletea model of "catalog browse": categories on
// the left, the analytes of the highlighted category with their symbols
// and methods on the right.
type catalogModel struct {
	cat        *catalog.Catalog
	categories []catalog.Category
	cursor     int
	// offset scrolls the analyte pane.
	offset int
	height int
}

func newCatalogModel(cat *catalog.Catalog) catalogModel {
	return catalogModel{cat: cat, categories: cat.Categories(), height: 20}
}

func (m catalogModel) Init() tea.Cmd {
	return nil
}

func (m catalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.offset = 0
			}
		case "down", "j":
			if m.cursor < len(m.categories)-1 {
				m.cursor++
				m.offset = 0
			}
		case "pgdown", "l":
			if m.offset+m.height < len(m.current().Analytes) {
				m.offset += m.height
			}
		case "pgup", "h":
			m.offset = max(0, m.offset-m.height)
		}
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-8)
	}
	return m, nil
}

func (m catalogModel) current() catalog.Category {
	if len(m.categories) == 0 {
		return catalog.Category{}
	}
	return m.categories[m.cursor]
}

func (m catalogModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("KELP analyte catalogue"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ category  pgup/pgdn analytes  q quit"))
	b.WriteString("\n\n")

	var left strings.Builder
	for i, cg := range m.categories {
		line := fmt.Sprintf("%-28s %3d", cg.Name, len(cg.Analytes))
		if i == m.cursor {
			left.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			left.WriteString(listNormalStyle.Render("  " + line))
		}
		left.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(strings.TrimRight(left.String(), "\n")),
		paneStyle.Render(m.detail()),
	))
	return b.String()
}

// detail renders the right pane for the highlighted category.
func (m catalogModel) detail() string {
	cg := m.current()
	var b strings.Builder
	b.WriteString(listSelectedStyle.Render(cg.ShortName()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(wrapMethods(m.cat.AllMethods(cg.Name), 48)))
	b.WriteString("\n\n")

	end := min(len(cg.Analytes), m.offset+m.height)
	for _, a := range cg.Analytes[m.offset:end] {
		sym := m.cat.Symbol(a)
		if sym == a {
			sym = ""
		}
		b.WriteString(fmt.Sprintf("%-36s %s\n", a, listDimStyle.Render(sym)))
	}
	if len(cg.Analytes) > m.height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d-%d of %d]", m.offset+1, end, len(cg.Analytes))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// wrapMethods breaks a ", "-joined method list into lines of at most width
// characters without splitting a method.
func wrapMethods(methods string, width int) string {
	if methods == "" {
		return "no methods"
	}
	var lines []string
	var cur string
	for _, m := range strings.Split(methods, ", ") {
		switch {
		case cur == "":
			cur = m
		case len(cur)+2+len(m) <= width:
			cur += ", " + m
		default:
			lines = append(lines, cur+",")
			cur = m
		}
	}
	return strings.Join(append(lines, cur), "\n")
}
