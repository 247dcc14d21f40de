package tree

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Node is one position in a nested tree. Children are ordered by ascending
// priority; items without a priority come last and ties keep input order.
type Node[T any] struct {
	Item     T          `json:"item"`
	Children []*Node[T] `json:"children,omitempty"`
}

// Keys tells Build how to read identity, parent and priority from an item.
type Keys[T any] struct {
	ID       func(T) string
	Parent   func(T) string // "" for no parent
	Priority func(T) *int   // nil sorts last
}

type entry[T any] struct {
	item T
	pos  int
	prio *int
}

// Build nests a flat list of items.
//
// Items are grouped by parent id in one pass and each group is sorted once.
// An item whose parent is empty, equal to its own id, or absent from the list
// becomes a root. Repeated ids are reported as a data-integrity error and
// only the first occurrence is used. Items that cannot be reached from any
// root (they sit on a parent cycle) are promoted to roots and reported, so
// every unique item appears exactly once in the result.
func Build[T any](items []T, keys Keys[T]) ([]*Node[T], error) {
	var integrity errors.Integrity

	present := make(map[string]bool, len(items))
	entries := make([]entry[T], 0, len(items))
	for i, it := range items {
		id := keys.ID(it)
		if present[id] {
			integrity.Add(errors.IssueDuplicateID, id, fmt.Sprintf("item %d", i))
			continue
		}
		present[id] = true
		e := entry[T]{item: it, pos: i}
		if keys.Priority != nil {
			e.prio = keys.Priority(it)
		}
		entries = append(entries, e)
	}

	groups := make(map[string][]entry[T])
	var roots []entry[T]
	for _, e := range entries {
		id, parent := keys.ID(e.item), keys.Parent(e.item)
		if parent == "" || parent == id || !present[parent] {
			roots = append(roots, e)
			continue
		}
		groups[parent] = append(groups[parent], e)
	}

	sortEntries(roots)
	for _, g := range groups {
		sortEntries(g)
	}

	placed := make(map[string]bool, len(entries))
	var descend func(e entry[T]) *Node[T]
	descend = func(e entry[T]) *Node[T] {
		id := keys.ID(e.item)
		placed[id] = true
		n := &Node[T]{Item: e.item}
		for _, child := range groups[id] {
			if placed[keys.ID(child.item)] {
				continue
			}
			n.Children = append(n.Children, descend(child))
		}
		return n
	}

	out := make([]*Node[T], 0, len(roots))
	for _, r := range roots {
		out = append(out, descend(r))
	}

	for _, e := range entries {
		id := keys.ID(e.item)
		if placed[id] {
			continue
		}
		integrity.Add(errors.IssueCycle, id, "unreachable from any root")
		out = append(out, descend(e))
	}

	return out, integrity.Err()
}

func sortEntries[T any](es []entry[T]) {
	slices.SortStableFunc(es, func(a, b entry[T]) int {
		switch {
		case a.prio == nil && b.prio == nil:
			return cmp.Compare(a.pos, b.pos)
		case a.prio == nil:
			return 1
		case b.prio == nil:
			return -1
		}
		if c := cmp.Compare(*a.prio, *b.prio); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})
}

// Walk visits every node depth-first in display order. Returning false from
// fn skips that node's children.
func Walk[T any](roots []*Node[T], fn func(n *Node[T], depth int) bool) {
	var visit func(n *Node[T], depth int)
	visit = func(n *Node[T], depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}

// Flatten returns all items in depth-first display order.
func Flatten[T any](roots []*Node[T]) []T {
	var out []T
	Walk(roots, func(n *Node[T], _ int) bool {
		out = append(out, n.Item)
		return true
	})
	return out
}

// Count returns the number of nodes in the forest.
func Count[T any](roots []*Node[T]) int {
	total := 0
	Walk(roots, func(*Node[T], int) bool {
		total++
		return true
	})
	return total
}
