package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/tree"
)

const vacant = "vacant"

// billetLabel renders "Role · Occupant" with the element dimmed.
func billetLabel(n org.Node) string {
	role := n.Role
	if role == "" {
		role = n.ID
	}
	label := StyleHighlight.Render(role) + StyleDim.Render(" · ")
	if n.Occupant != nil {
		label += StyleValue.Render(n.Occupant.DisplayName())
	} else {
		label += StyleDim.Render(vacant)
	}
	if n.ElementName != "" {
		label += " " + StyleDim.Render("["+n.ElementName+"]")
	}
	return label
}

func enumerate(t *ltree.Tree) *ltree.Tree {
	return t.Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(lipgloss.NewStyle().Foreground(colorDim).MarginRight(1))
}

// renderTree draws the active hierarchy.
func renderTree(roots []*tree.Node[org.Node]) string {
	var build func(n *tree.Node[org.Node]) *ltree.Tree
	build = func(n *tree.Node[org.Node]) *ltree.Tree {
		t := enumerate(ltree.Root(billetLabel(n.Item)))
		for _, c := range n.Children {
			t.Child(build(c))
		}
		return t
	}

	forest := enumerate(ltree.New())
	for _, r := range roots {
		forest.Child(build(r))
	}
	return forest.String()
}

// renderElements draws the element tree with billets as leaf rows.
func renderElements(roots []*tree.Node[tree.ElementItem]) string {
	var build func(n *tree.Node[tree.ElementItem]) *ltree.Tree
	build = func(n *tree.Node[tree.ElementItem]) *ltree.Tree {
		t := enumerate(ltree.Root(StyleTitle.Render(n.Item.Name)))
		for _, row := range n.Item.Rows {
			occupant := StyleDim.Render(vacant)
			if row.OccupantName != "" {
				occupant = StyleValue.Render(row.OccupantName)
			}
			t.Child(StyleHighlight.Render(row.Role) + StyleDim.Render(" · ") + occupant)
		}
		for _, c := range n.Children {
			t.Child(build(c))
		}
		return t
	}

	forest := enumerate(ltree.New())
	for _, r := range roots {
		forest.Child(build(r))
	}
	return forest.String()
}

// renderRoster draws reservists as a table.
func renderRoster(nodes []org.Node, superiorRole func(id string) string) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		occupant := vacant
		if n.Occupant != nil {
			occupant = n.Occupant.DisplayName()
		}
		element := n.ElementName
		if element == "" {
			element = "-"
		}
		rows[i] = []string{element, n.Role, occupant, superiorRole(n.SuperiorID)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Element", "Role", "Occupant", "Reports to").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && rows[row][2] == vacant:
				return cellStyle.Foreground(colorDim)
			case col == 1:
				return cellStyle.Foreground(colorYellow)
			}
			return cellStyle
		}).
		String()
}
