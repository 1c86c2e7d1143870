package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/pkg/djgraph"
	"github.com/flowlens/flowlens/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command, an interactive vertex browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "explore [djgraph.json|cfg.json]",
		Short: "Browse a DJ-graph interactively",
		Long: `Browse a DJ-graph interactively.

Vertices are listed with their dominance level, degrees, and outgoing
edge kinds. The selected vertex's neighbors are shown below the table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := pipeline.Options{Entry: entry, Logger: c.Logger}
			dj, err := loadDJGraph(cmd.Context(), runner, args[0], opts)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newExploreModel(dj))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "entry vertex (CFG input only)")

	return cmd
}

// =============================================================================
// ExploreModel - Interactive vertex browser
// =============================================================================

// vertexRow is one table row: a vertex with its degree and kind breakdown.
type vertexRow struct {
	id     string
	level  int
	in     int
	out    int
	d      int // outgoing dominance edges
	bj     int // outgoing back-joins
	cj     int // outgoing cross-joins
	isBack bool
}

// ExploreModel is the bubbletea model for the vertex browser.
type ExploreModel struct {
	graph  *djgraph.Graph[string]
	rows   []vertexRow
	Cursor int
	Height int
	Offset int
}

// newExploreModel builds the browser state from a DJ-graph. Rows are
// sorted by (level, id) so the listing mirrors the tree depth.
func newExploreModel(g *djgraph.Graph[string]) ExploreModel {
	vertices := g.Vertices()
	rows := make([]vertexRow, len(vertices))
	for i, v := range vertices {
		row := vertexRow{
			id:    v.ID,
			level: v.Level,
			in:    len(g.Preds(v.ID)),
			out:   len(g.Succs(v.ID)),
		}
		for _, e := range g.Edges() {
			if e.From != v.ID {
				continue
			}
			switch e.Kind {
			case djgraph.Dominance:
				row.d++
			case djgraph.BackJoin:
				row.bj++
			case djgraph.CrossJoin:
				row.cj++
			}
		}
		row.isBack = row.bj > 0
		rows[i] = row
	}
	slices.SortFunc(rows, func(a, b vertexRow) int {
		if c := cmp.Compare(a.level, b.level); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	return ExploreModel{
		graph:  g,
		rows:   rows,
		Height: 15,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("DJ-Graph Explorer"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("entry %s", m.graph.Entry())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			r.id,
			strconv.Itoa(r.level),
			strconv.Itoa(r.in),
			strconv.Itoa(r.out),
			kindSummary(r),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Vertex", "Level", "In", "Out", "Kinds").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			r := m.rows[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				base = base.Bold(true)
				if r.isBack {
					return base.Foreground(colorYellow)
				}
				return base.Foreground(colorCyan)
			}
			if r.isBack {
				return base.Foreground(colorYellow)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	b.WriteString("\n\n")
	b.WriteString(m.selectionDetail())

	return b.String()
}

// selectionDetail renders the selected vertex's neighborhood.
func (m ExploreModel) selectionDetail() string {
	if len(m.rows) == 0 {
		return ""
	}
	id := m.rows[m.Cursor].id

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(id))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  preds: "))
	b.WriteString(StyleValue.Render(joinOrDash(m.graph.Preds(id))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  succs: "))
	b.WriteString(StyleValue.Render(joinOrDash(m.graph.Succs(id))))
	b.WriteString("\n")
	return b.String()
}

// kindSummary formats the outgoing kind counts, omitting zero entries.
func kindSummary(r vertexRow) string {
	parts := []string{}
	if r.d > 0 {
		parts = append(parts, fmt.Sprintf("D:%d", r.d))
	}
	if r.bj > 0 {
		parts = append(parts, fmt.Sprintf("BJ:%d", r.bj))
	}
	if r.cj > 0 {
		parts = append(parts, fmt.Sprintf("CJ:%d", r.cj))
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " ")
}

func joinOrDash(vs []string) string {
	if len(vs) == 0 {
		return "—"
	}
	return strings.Join(vs, ", ")
}
