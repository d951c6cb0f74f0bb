package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jkessling/reachview/pkg/errors"
	"github.com/jkessling/reachview/pkg/graph"
	"github.com/jkessling/reachview/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive start node selection
// =============================================================================

// nodeEntry is one pickable row.
type nodeEntry struct {
	ID    int
	Label string
}

// NodeListModel is the bubbletea model for interactive start node selection.
// Typing filters the list by id or label substring.
type NodeListModel struct {
	Nodes    []nodeEntry
	Filtered []nodeEntry
	Filter   string
	Cursor   int
	Selected *nodeEntry
	Height   int
	Offset   int
}

// NewNodeListModel creates a node list model over all nodes of g.
func NewNodeListModel(g *graph.Graph) NodeListModel {
	ids := g.NodeIDs()
	nodes := make([]nodeEntry, len(ids))
	for i, id := range ids {
		nodes[i] = nodeEntry{ID: id, Label: g.DisplayLabel(id)}
	}
	return NodeListModel{
		Nodes:    nodes,
		Filtered: nodes,
		Height:   15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down":
			if m.Cursor < len(m.Filtered)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Cursor < len(m.Filtered) {
				entry := m.Filtered[m.Cursor]
				m.Selected = &entry
			}
			return m, tea.Quit
		case "backspace":
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		default:
			if len(msg.String()) == 1 {
				m.Filter += msg.String()
				m.applyFilter()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// applyFilter recomputes the visible rows and clamps the cursor.
func (m *NodeListModel) applyFilter() {
	if m.Filter == "" {
		m.Filtered = m.Nodes
	} else {
		needle := strings.ToLower(m.Filter)
		filtered := make([]nodeEntry, 0, len(m.Nodes))
		for _, n := range m.Nodes {
			if strings.Contains(strconv.Itoa(n.ID), needle) ||
				strings.Contains(strings.ToLower(n.Label), needle) {
				filtered = append(filtered, n)
			}
		}
		m.Filtered = filtered
	}
	m.Cursor = 0
	m.Offset = 0
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Start Node"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.Filtered) == 0 {
		b.WriteString(listDimStyle.Render("  no matching nodes"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Filtered) {
		end = len(m.Filtered)
	}

	for i := m.Offset; i < end; i++ {
		n := m.Filtered[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-6d %s", cursor, n.ID, n.Label)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Filtered))))

	return b.String()
}

// =============================================================================
// Picker Entry Point
// =============================================================================

// pickStart opens the interactive node picker over the graph dump and
// returns the chosen node id in flag form. It fails when the session is
// not interactive; --start is required then.
func pickStart(source string) (string, error) {
	g, err := pipeline.ParseSource(source)
	if err != nil {
		return "", err
	}
	if g.NodeCount() == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "graph dump contains no nodes")
	}

	p := tea.NewProgram(NewNodeListModel(g))
	final, err := p.Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err,
			"no start node given and the picker could not run (pass --start)")
	}

	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "no start node selected")
	}
	return strconv.Itoa(m.Selected.ID), nil
}
