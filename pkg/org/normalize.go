package org

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/orgchart/pkg/dag"
	"github.com/matzehuels/orgchart/pkg/errors"
)

// ReservedPrefix starts ids generated for layout-only nodes. Records using it
// are rejected.
const ReservedPrefix = "__rsv__"

// MissingReference is a superior link the active hierarchy cannot follow.
// The node is treated as a root.
type MissingReference struct {
	NodeID     string
	SuperiorID string

	// ReservistSuperior is set when the superior is in the set but is a
	// reservist, and therefore outside the active hierarchy.
	ReservistSuperior bool
}

// Set is an immutable, normalized working set of billets.
type Set struct {
	nodes   []Node
	index   map[string]int
	missing []MissingReference
}

// Normalize shapes raw records into a working set.
//
// Integrity problems do not abort normalization. Records with an empty id or
// a repeated id are dropped (the first occurrence of an id wins), a superior
// link pointing at the node itself is cleared, and every superior cycle is
// broken by clearing the link of the cycle member that came first in the
// input. Each fix is reported in the returned *errors.IntegrityError; the Set
// is valid either way and is never nil.
func Normalize(records []Record) (*Set, error) {
	var integrity errors.Integrity

	s := &Set{index: make(map[string]int, len(records))}
	for i, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			integrity.Add(errors.IssueEmptyID, "", fmt.Sprintf("record %d", i))
			continue
		}
		if strings.HasPrefix(id, ReservedPrefix) {
			integrity.Add(errors.IssueReservedID, id, fmt.Sprintf("record %d", i))
			continue
		}
		if _, dup := s.index[id]; dup {
			integrity.Add(errors.IssueDuplicateID, id, fmt.Sprintf("record %d", i))
			continue
		}

		n := Node{
			ID:          id,
			Role:        strings.TrimSpace(r.Role),
			ElementID:   strings.TrimSpace(r.ElementID),
			ElementName: strings.TrimSpace(r.ElementName),
			ElementIcon: strings.TrimSpace(r.ElementIcon),
			SuperiorID:  strings.TrimSpace(r.SuperiorID),
			Occupant:    normalizePerson(r.Occupant),
			Priority:    r.Priority,
		}
		if r.Reservist != nil {
			n.Reservist = *r.Reservist
		} else {
			n.Reservist = IsReservistRole(n.Role)
		}
		if n.SuperiorID == id {
			integrity.Add(errors.IssueSelfReference, id, "")
			n.SuperiorID = ""
		}

		s.index[id] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}

	s.breakCycles(&integrity)
	s.collectMissing()

	return s, integrity.Err()
}

// collectMissing lists superior links into absent nodes, and links from
// active billets to reservists.
func (s *Set) collectMissing() {
	s.missing = nil
	for _, n := range s.nodes {
		if n.SuperiorID == "" {
			continue
		}
		i, ok := s.index[n.SuperiorID]
		switch {
		case !ok:
			s.missing = append(s.missing, MissingReference{NodeID: n.ID, SuperiorID: n.SuperiorID})
		case !n.Reservist && s.nodes[i].Reservist:
			s.missing = append(s.missing, MissingReference{NodeID: n.ID, SuperiorID: n.SuperiorID, ReservistSuperior: true})
		}
	}
}

func normalizePerson(p *Person) *Person {
	if p == nil {
		return nil
	}
	out := Person{
		ID:               strings.TrimSpace(p.ID),
		Name:             strings.TrimSpace(p.Name),
		ServiceNumber:    strings.TrimSpace(p.ServiceNumber),
		RankAbbreviation: strings.TrimSpace(p.RankAbbreviation),
	}
	if out.ID == "" && out.Name == "" {
		return nil
	}
	return &out
}

func (s *Set) breakCycles(integrity *errors.Integrity) {
	g := dag.New()
	for _, n := range s.nodes {
		_ = g.AddNode(dag.Node{ID: n.ID})
	}
	for _, n := range s.nodes {
		if n.SuperiorID != "" && s.has(n.SuperiorID) {
			_ = g.AddEdge(dag.Edge{From: n.SuperiorID, To: n.ID})
		}
	}

	for _, cycle := range g.Cycles() {
		first := slices.MinFunc(cycle, func(a, b string) int {
			return s.index[a] - s.index[b]
		})
		integrity.Add(errors.IssueCycle, first, strings.Join(cycle, " -> "))
		s.nodes[s.index[first]].SuperiorID = ""
	}
}

func (s *Set) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of nodes.
func (s *Set) Len() int { return len(s.nodes) }

// Nodes returns a copy of the nodes in input order.
func (s *Set) Nodes() []Node { return slices.Clone(s.nodes) }

// Node returns the node with the given id.
func (s *Set) Node(id string) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Superior returns the id of n's superior when it is part of the set, or ""
// when n is a root.
func (s *Set) Superior(n Node) string {
	if n.SuperiorID != "" && s.has(n.SuperiorID) {
		return n.SuperiorID
	}
	return ""
}

// Roots returns nodes whose superior is unset or absent, in input order.
func (s *Set) Roots() []Node {
	var roots []Node
	for _, n := range s.nodes {
		if s.Superior(n) == "" {
			roots = append(roots, n)
		}
	}
	return roots
}

// MissingReferences lists superior links that resolve outside the set.
func (s *Set) MissingReferences() []MissingReference { return slices.Clone(s.missing) }

// Filter returns a new Set holding the nodes for which keep returns true.
// Superior links into removed nodes become missing references.
func (s *Set) Filter(keep func(Node) bool) *Set {
	out := &Set{index: make(map[string]int)}
	for _, n := range s.nodes {
		if keep(n) {
			out.index[n.ID] = len(out.nodes)
			out.nodes = append(out.nodes, n)
		}
	}
	out.collectMissing()
	return out
}
