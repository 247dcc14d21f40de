package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/reservist"
	"github.com/matzehuels/orgchart/pkg/visibility"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseRow is one line of the browse view.
type browseRow struct {
	Node      org.Node
	Depth     int
	Reservist bool
	HasKids   bool
	Collapsed bool
}

// BrowseModel is the bubbletea model for the interactive chart. It shows the
// same billets as the graph for the current collapse state: visible active
// billets depth-first, with reservists listed under their expanded superior.
type BrowseModel struct {
	snap      *pipeline.Snapshot
	forest    *visibility.Forest
	lanes     reservist.Lanes
	Collapsed collapse.Set

	Rows   []browseRow
	Cursor int
	Offset int
	Height int
	Status string
}

// NewBrowseModel creates a model over snap with the given collapse state.
func NewBrowseModel(snap *pipeline.Snapshot, collapsed collapse.Set) BrowseModel {
	lanes := reservist.Separate(snap.Set)
	m := BrowseModel{
		snap:      snap,
		forest:    visibility.NewForest(lanes.Active),
		lanes:     lanes,
		Collapsed: collapsed.Clone(),
		Height:    20,
	}
	m.rebuild()
	return m
}

// rebuild recomputes the rows and keeps the cursor on the same billet.
func (m *BrowseModel) rebuild() {
	current := ""
	if m.Cursor < len(m.Rows) {
		current = m.Rows[m.Cursor].Node.ID
	}

	m.Rows = nil
	var visit func(id string, depth int)
	visit = func(id string, depth int) {
		n, _ := m.forest.Node(id)
		collapsed := m.Collapsed.Has(id)
		m.Rows = append(m.Rows, browseRow{Node: n, Depth: depth, HasKids: m.forest.HasChildren(id), Collapsed: collapsed})
		if collapsed {
			return
		}
		for _, c := range m.forest.Children(id) {
			visit(c, depth+1)
		}
		if anchor, ok := m.lanes.AnchorFor(id); ok {
			for _, rid := range anchor.Members {
				rn, _ := m.snap.Set.Node(rid)
				m.Rows = append(m.Rows, browseRow{Node: rn, Depth: depth + 1, Reservist: true})
			}
		}
	}
	for _, r := range m.forest.Roots() {
		visit(r, 0)
	}

	m.Cursor = 0
	for i, row := range m.Rows {
		if row.Node.ID == current {
			m.Cursor = i
			break
		}
	}
	m.scroll()
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// toggle collapses or expands the billet under the cursor.
func (m *BrowseModel) toggle() {
	if len(m.Rows) == 0 {
		return
	}
	row := m.Rows[m.Cursor]
	if row.Reservist {
		m.Status = "reservists cannot be collapsed"
		return
	}
	now, err := m.forest.Toggle(&m.Collapsed, row.Node.ID)
	switch {
	case errors.Is(err, visibility.ErrNotCollapsible):
		m.Status = fmt.Sprintf("%s has no subordinates", row.Node.ID)
		return
	case now:
		m.Status = "collapsed " + row.Node.ID
	default:
		m.Status = "expanded " + row.Node.ID
	}
	m.rebuild()
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "enter", " ":
			m.toggle()
		case "e":
			m.Collapsed = collapse.New()
			m.Status = "expanded all"
			m.rebuild()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
		m.scroll()
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Org Chart"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ collapse/expand  e expand all  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no billets"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		switch {
		case row.Reservist:
			marker = StyleWarning.Render("◦ ")
		case row.HasKids && row.Collapsed:
			marker = "+ "
		case row.HasKids:
			marker = "- "
		}

		line := cursor + strings.Repeat("  ", row.Depth) + marker
		if i == m.Cursor {
			line += listSelectedStyle.Render(plainLabel(row.Node))
		} else {
			line += billetLabel(row.Node)
		}
		if row.Collapsed {
			line += listDimStyle.Render(fmt.Sprintf("  (%d hidden)", len(m.forest.Descendants(row.Node.ID))))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Rows)), len(m.Rows))))
	if m.Status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.Status))
	}
	return b.String()
}

// plainLabel is billetLabel without styling, for the highlighted row.
func plainLabel(n org.Node) string {
	role := n.Role
	if role == "" {
		role = n.ID
	}
	occupant := vacant
	if n.Occupant != nil {
		occupant = n.Occupant.DisplayName()
	}
	return role + " · " + occupant
}
