// Package reservist splits reserve billets out of the active hierarchy.
//
// Reservists are not part of the collapsible tree. They are listed as a
// roster, and in the graph they hang below their superior on a separate
// lane. To push that lane one rank lower, each superior with reservists gets
// a virtual anchor: the layout engine sees superior→anchor→reservist while
// the rendered edge stays superior→reservist.
package reservist

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/orgchart/pkg/org"
)

// AnchorPrefix namespaces virtual anchor ids. Normalize rejects billet ids
// that use it, so anchors never collide with billets.
const AnchorPrefix = org.ReservedPrefix

// AnchorID returns the anchor id for a superior.
func AnchorID(superiorID string) string { return AnchorPrefix + superiorID }

// IsAnchorID reports whether id names a virtual anchor.
func IsAnchorID(id string) bool { return strings.HasPrefix(id, AnchorPrefix) }

// Anchor is a layout-only node owned by one superior.
type Anchor struct {
	ID         string
	SuperiorID string
	Members    []string // reservist ids in input order
}

// Edge is a directed link between two ids.
type Edge struct {
	From string
	To   string
}

// Lanes is the result of separating a working set.
type Lanes struct {
	Active     []org.Node
	Reservists []org.Node

	// Anchors holds exactly one entry per superior that owns at least one
	// reservist present in the set, in order of first appearance.
	Anchors []Anchor

	// LayoutEdges are handed to the layout engine: superior→anchor and
	// anchor→reservist.
	LayoutEdges []Edge

	// RenderedEdges are what users see: superior→reservist.
	RenderedEdges []Edge
}

// Separate partitions set into active and reservist billets and builds the
// anchors and dual edges for every reservist whose superior is in the set.
// Reservists without such a superior get no anchor and appear only in the
// roster.
func Separate(set *org.Set) Lanes {
	var l Lanes
	anchorIdx := make(map[string]int)

	for _, n := range set.Nodes() {
		if !n.Reservist {
			l.Active = append(l.Active, n)
			continue
		}
		l.Reservists = append(l.Reservists, n)

		sup := set.Superior(n)
		if sup == "" {
			continue
		}
		i, ok := anchorIdx[sup]
		if !ok {
			i = len(l.Anchors)
			anchorIdx[sup] = i
			l.Anchors = append(l.Anchors, Anchor{ID: AnchorID(sup), SuperiorID: sup})
			l.LayoutEdges = append(l.LayoutEdges, Edge{From: sup, To: AnchorID(sup)})
		}
		l.Anchors[i].Members = append(l.Anchors[i].Members, n.ID)
		l.LayoutEdges = append(l.LayoutEdges, Edge{From: AnchorID(sup), To: n.ID})
		l.RenderedEdges = append(l.RenderedEdges, Edge{From: sup, To: n.ID})
	}
	return l
}

// AnchorFor returns the anchor owned by superiorID, if any.
func (l Lanes) AnchorFor(superiorID string) (Anchor, bool) {
	i := slices.IndexFunc(l.Anchors, func(a Anchor) bool { return a.SuperiorID == superiorID })
	if i < 0 {
		return Anchor{}, false
	}
	return l.Anchors[i], true
}

// Roster returns the reservists sorted by owning element name. Billets in
// the same element keep input order; billets without an element come last.
func Roster(l Lanes) []org.Node {
	out := slices.Clone(l.Reservists)
	slices.SortStableFunc(out, func(a, b org.Node) int {
		switch {
		case a.ElementName == "" && b.ElementName != "":
			return 1
		case a.ElementName != "" && b.ElementName == "":
			return -1
		}
		return cmp.Compare(strings.ToLower(a.ElementName), strings.ToLower(b.ElementName))
	})
	return out
}
