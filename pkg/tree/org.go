package tree

import (
	"cmp"
	"slices"

	"github.com/matzehuels/orgchart/pkg/org"
)

// NodeKeys reads billet identity from normalized nodes.
var NodeKeys = Keys[org.Node]{
	ID:       func(n org.Node) string { return n.ID },
	Parent:   func(n org.Node) string { return n.SuperiorID },
	Priority: func(n org.Node) *int { return n.Priority },
}

// BuildNodes nests the active billets of a working set. Reservists are left
// out; they are listed separately as a roster.
func BuildNodes(set *org.Set) ([]*Node[org.Node], error) {
	var active []org.Node
	for _, n := range set.Nodes() {
		if !n.Reservist {
			active = append(active, n)
		}
	}
	return Build(active, NodeKeys)
}

// Row is one billet shown inline under its element.
type Row struct {
	Role         string `json:"role"`
	OccupantName string `json:"occupant_name,omitempty"`
	OccupantID   string `json:"occupant_id,omitempty"`
}

// ElementItem is an element together with its inline billet rows.
type ElementItem struct {
	org.Element
	Rows []Row `json:"rows"`
}

var elementKeys = Keys[ElementItem]{
	ID:       func(e ElementItem) string { return e.ID },
	Parent:   func(e ElementItem) string { return e.ParentID },
	Priority: func(e ElementItem) *int { return e.Priority },
}

// BuildElements nests elements for the simpler nested-table display. Each
// billet whose ElementID matches an element becomes a row on it, ordered by
// billet priority. Billets are not drilled into separate nodes.
func BuildElements(elements []org.Element, billets []org.Node) ([]*Node[ElementItem], error) {
	owned := make(map[string][]org.Node)
	for _, b := range billets {
		if b.ElementID != "" {
			owned[b.ElementID] = append(owned[b.ElementID], b)
		}
	}

	items := make([]ElementItem, len(elements))
	for i, el := range elements {
		bs := owned[el.ID]
		slices.SortStableFunc(bs, func(a, b org.Node) int {
			switch {
			case a.Priority == nil && b.Priority == nil:
				return 0
			case a.Priority == nil:
				return 1
			case b.Priority == nil:
				return -1
			}
			return cmp.Compare(*a.Priority, *b.Priority)
		})

		rows := make([]Row, len(bs))
		for j, b := range bs {
			rows[j] = Row{Role: b.Role}
			if b.Occupant != nil {
				rows[j].OccupantName = b.Occupant.DisplayName()
				rows[j].OccupantID = b.Occupant.ID
			}
		}
		items[i] = ElementItem{Element: el, Rows: rows}
	}

	return Build(items, elementKeys)
}
