package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/marcusm117/mctk/pkg/kripke"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// stateRow is one state entry in the interactive browser.
type stateRow struct {
	Name  string
	Atoms []string
	Succ  []string
	Pred  []string
	Start bool
}

func (r stateRow) labelText() string {
	if len(r.Atoms) == 0 {
		return "{}"
	}
	return "{" + strings.Join(r.Atoms, ",") + "}"
}

// StateBrowserModel is the bubbletea model for interactive state browsing.
type StateBrowserModel struct {
	Rows   []stateRow
	Cursor int
	Height int
	Offset int
	Detail bool
}

// newStateBrowser builds the browser model from a structure, states in name
// order.
func newStateBrowser(g *kripke.Struct) StateBrowserModel {
	starts := g.StartSet()

	rows := make([]stateRow, 0, g.StateCount())
	for _, name := range g.StateNames() {
		atoms, _ := g.StateLabelAtoms(name)
		rows = append(rows, stateRow{
			Name:  name,
			Atoms: atoms,
			Succ:  g.Successors(name),
			Pred:  g.Predecessors(name),
			Start: starts.Contains(name),
		})
	}

	return StateBrowserModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m StateBrowserModel) Init() tea.Cmd {
	return nil
}

func (m StateBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m StateBrowserModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m StateBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("States"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		start := ""
		if r.Start {
			start = "✓"
		}

		rows = append(rows, []string{
			cursor, r.Name, r.labelText(), start,
			fmt.Sprintf("%d", len(r.Succ)), fmt.Sprintf("%d", len(r.Pred)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "State", "Labels", "Start", "Out", "In").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m StateBrowserModel) detailView() string {
	r := m.Rows[m.Cursor]

	var b strings.Builder
	title := r.Name
	if r.Start {
		title += " (start)"
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("Labels       ") + styleValue.Render(r.labelText()) + "\n")
	b.WriteString(styleDim.Render("Successors   ") + styleValue.Render(orDash(r.Succ)) + "\n")
	b.WriteString(styleDim.Render("Predecessors ") + styleValue.Render(orDash(r.Pred)) + "\n\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	return b.String()
}

func orDash(names []string) string {
	if len(names) == 0 {
		return "—"
	}
	return strings.Join(names, ", ")
}
