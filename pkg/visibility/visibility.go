// Package visibility computes which billets are shown under a collapse state.
package visibility

import (
	"cmp"
	"slices"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
)

// ErrNotCollapsible is returned by [Forest.Toggle] for ids that are unknown
// or have no children.
var ErrNotCollapsible = errors.New(errors.ErrCodeNotCollapsible, "node has no children to collapse")

// Forest is the parent→children adjacency of a node list. Links to ids
// outside the list are ignored, which makes such nodes roots.
type Forest struct {
	nodes    map[string]org.Node
	roots    []string
	children map[string][]string
}

// NewForest indexes nodes. Children keep priority order (nil last, stable).
func NewForest(nodes []org.Node) *Forest {
	f := &Forest{
		nodes:    make(map[string]org.Node, len(nodes)),
		children: make(map[string][]string),
	}
	for _, n := range nodes {
		if _, dup := f.nodes[n.ID]; !dup {
			f.nodes[n.ID] = n
		}
	}

	ordered := slices.Clone(nodes)
	slices.SortStableFunc(ordered, func(a, b org.Node) int {
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

	seen := make(map[string]bool, len(nodes))
	for _, n := range ordered {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if _, ok := f.nodes[n.SuperiorID]; ok && n.SuperiorID != n.ID {
			f.children[n.SuperiorID] = append(f.children[n.SuperiorID], n.ID)
		} else {
			f.roots = append(f.roots, n.ID)
		}
	}
	return f
}

// Roots returns the effective roots in priority order.
func (f *Forest) Roots() []string { return f.roots }

// Children returns the ids of n's direct children in priority order.
func (f *Forest) Children(id string) []string { return f.children[id] }

// HasChildren reports whether id has at least one child.
func (f *Forest) HasChildren(id string) bool { return len(f.children[id]) > 0 }

// Parent returns the id of id's parent within the forest, or "".
func (f *Forest) Parent(id string) string {
	n, ok := f.nodes[id]
	if !ok {
		return ""
	}
	if _, ok := f.nodes[n.SuperiorID]; ok && n.SuperiorID != id {
		return n.SuperiorID
	}
	return ""
}

// Node returns the node with the given id.
func (f *Forest) Node(id string) (org.Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Len returns the number of distinct nodes.
func (f *Forest) Len() int { return len(f.nodes) }

// Visible is the result of a visibility pass.
type Visible struct {
	order []string
	set   map[string]bool
}

// IDs returns the visible ids in breadth-first order.
func (v Visible) IDs() []string { return v.order }

// Has reports whether id is visible.
func (v Visible) Has(id string) bool { return v.set[id] }

// Len returns the number of visible nodes.
func (v Visible) Len() int { return len(v.order) }

// Visible walks breadth-first from every root. A node is always marked
// visible when reached; its children are queued only when it is not in
// collapsed. The walk never revisits a node.
func (f *Forest) Visible(collapsed collapse.Set) Visible {
	v := Visible{set: make(map[string]bool, len(f.nodes))}
	queue := slices.Clone(f.roots)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if v.set[id] {
			continue
		}
		v.set[id] = true
		v.order = append(v.order, id)
		if collapsed.Has(id) {
			continue
		}
		queue = append(queue, f.children[id]...)
	}
	return v
}

// Descendants returns every strict descendant of id in breadth-first order.
func (f *Forest) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	queue := slices.Clone(f.children[id])
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
		queue = append(queue, f.children[c]...)
	}
	return out
}

// Toggle flips id in collapsed. Only nodes with at least one child can be
// collapsed; anything else yields ErrNotCollapsible and leaves the set as is.
// Expanding an id that is already collapsed is always allowed.
func (f *Forest) Toggle(collapsed *collapse.Set, id string) (bool, error) {
	if !collapsed.Has(id) && !f.HasChildren(id) {
		return false, ErrNotCollapsible
	}
	return collapsed.Toggle(id), nil
}
