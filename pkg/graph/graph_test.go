package graph

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/collapse"
	orgerrors "github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/reservist"
)

// stacked places every box in its own rank, one column, in input order.
var stacked = layout.EngineFunc(func(_ context.Context, boxes []layout.Box, _ []layout.Edge) (map[string]layout.Point, error) {
	pos := make(map[string]layout.Point, len(boxes))
	for i, b := range boxes {
		pos[b.ID] = layout.Point{X: 500, Y: float64(i)*200 + 50}
	}
	return pos, nil
})

func normalize(t *testing.T, records []org.Record) *org.Set {
	t.Helper()
	set, err := org.Normalize(records)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return set
}

func nodeIDs(g *Graph) []string {
	out := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.ID
	}
	return out
}

func edgePairs(g *Graph) []string {
	out := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		out[i] = e.Source + ">" + e.Target
	}
	return out
}

func TestBuildReservistScenario(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A", Role: "Commander"},
		{ID: "B", Role: "Rifleman", SuperiorID: "A"},
		{ID: "C", Role: "Reservist Rifleman", SuperiorID: "A"},
	})

	var seenBoxes []string
	var seenEdges []layout.Edge
	spy := layout.EngineFunc(func(ctx context.Context, boxes []layout.Box, edges []layout.Edge) (map[string]layout.Point, error) {
		for _, b := range boxes {
			seenBoxes = append(seenBoxes, b.ID)
		}
		seenEdges = edges
		return stacked(ctx, boxes, edges)
	})

	g := Build(context.Background(), set, collapse.Set{}, Options{Engine: spy})

	if !slices.Contains(seenBoxes, "__rsv__A") {
		t.Errorf("engine boxes = %v, want anchor __rsv__A", seenBoxes)
	}
	if !slices.Contains(seenEdges, layout.Edge{From: "A", To: "__rsv__A"}) ||
		!slices.Contains(seenEdges, layout.Edge{From: "__rsv__A", To: "C"}) {
		t.Errorf("engine edges = %v, want A->anchor->C", seenEdges)
	}
	if slices.Contains(seenEdges, layout.Edge{From: "A", To: "C"}) {
		t.Error("engine must not see the direct A->C edge")
	}

	if got := nodeIDs(g); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("nodes = %v, want [A B C]", got)
	}
	if got := edgePairs(g); !slices.Equal(got, []string{"A>B", "A>C"}) {
		t.Errorf("edges = %v, want [A>B A>C]", got)
	}
	if g.Layout != LayoutEngine || g.Fallback != "" {
		t.Errorf("Layout = %q (%q), want engine", g.Layout, g.Fallback)
	}
	c, _ := g.Node("C")
	if !c.Reservist || c.HasChildren {
		t.Errorf("C = %+v, want reservist leaf", c)
	}
}

func TestBuildActiveUnderReservist(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A", Role: "Commander"},
		{ID: "R", Role: "Reserve Sergeant", SuperiorID: "A"},
		{ID: "X", Role: "Driver", SuperiorID: "R"},
	})
	if m := set.MissingReferences(); len(m) != 1 || m[0].NodeID != "X" || !m[0].ReservistSuperior {
		t.Errorf("MissingReferences() = %v, want X under reservist R", m)
	}

	g := Build(context.Background(), set, collapse.Set{}, Options{Engine: stacked})

	got := nodeIDs(g)
	slices.Sort(got)
	if !slices.Equal(got, []string{"A", "R", "X"}) {
		t.Fatalf("nodes = %v, want [A R X]", got)
	}
	if edges := edgePairs(g); !slices.Equal(edges, []string{"A>R"}) {
		t.Errorf("edges = %v, want [A>R]", edges)
	}
	x, _ := g.Node("X")
	if x.HasParent {
		t.Error("X should be drawn as a root")
	}
}

func TestBuildRejectsAnchorIDs(t *testing.T) {
	anchor := reservist.AnchorID("A")
	g, err := FromRecords(context.Background(), []org.Record{
		{ID: "A", Role: "Commander"},
		{ID: anchor, Role: "Clerk", SuperiorID: "A"},
		{ID: "C", Role: "Reservist Rifleman", SuperiorID: "A"},
	}, collapse.Set{}, Options{Engine: stacked})

	var ie *orgerrors.IntegrityError
	if !errors.As(err, &ie) || !ie.Has(orgerrors.IssueReservedID, anchor) {
		t.Fatalf("err = %v, want reserved_id issue for %s", err, anchor)
	}
	if got := nodeIDs(g); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("nodes = %v, want [A C]", got)
	}
	if edges := edgePairs(g); !slices.Equal(edges, []string{"A>C"}) {
		t.Errorf("edges = %v, want [A>C]", edges)
	}
}

func TestBuildNeverRendersAnchors(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "r1", Role: "Reservist", SuperiorID: "A"},
		{ID: "r2", Role: "Reservist", SuperiorID: "B"},
		{ID: "r3", Role: "Reservist", SuperiorID: "B"},
	})
	for _, engine := range []layout.Engine{stacked, nil} {
		g := Build(context.Background(), set, collapse.Set{}, Options{Engine: engine})
		for _, n := range g.Nodes {
			if reservist.IsAnchorID(n.ID) {
				t.Errorf("anchor %s rendered", n.ID)
			}
		}
		for _, e := range g.Edges {
			if reservist.IsAnchorID(e.Source) || reservist.IsAnchorID(e.Target) {
				t.Errorf("anchor edge %s rendered", e.ID)
			}
		}
		if len(g.Nodes) != 5 {
			t.Errorf("nodes = %v, want all 5", nodeIDs(g))
		}
	}
}

func TestBuildCollapse(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "C", SuperiorID: "A"},
		{ID: "D", SuperiorID: "B"},
		{ID: "rB", Role: "Reservist", SuperiorID: "B"},
	})

	g := Build(context.Background(), set, collapse.New("A"), Options{Engine: stacked})
	if got := nodeIDs(g); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("collapsed A: nodes = %v, want [A]", got)
	}
	a, _ := g.Node("A")
	if !a.Collapsed || !a.HasChildren || a.HasBottomChildren {
		t.Errorf("A = %+v", a)
	}
	if len(g.Edges) != 0 {
		t.Errorf("edges = %v, want none", edgePairs(g))
	}

	g = Build(context.Background(), set, collapse.New("B"), Options{Engine: stacked})
	if got := nodeIDs(g); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("collapsed B: nodes = %v, want [A B C]", got)
	}

	g = Build(context.Background(), set, collapse.Set{}, Options{Engine: stacked})
	if got := nodeIDs(g); !slices.Equal(got, []string{"A", "B", "C", "D", "rB"}) {
		t.Errorf("expanded: nodes = %v", got)
	}
}

func TestBuildFallback(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "C", SuperiorID: "A"},
		{ID: "D", SuperiorID: "B"},
		{ID: "E", Role: "Reservist", SuperiorID: "A"},
	})

	engines := map[string]layout.Engine{
		"none": nil,
		"error": layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
			return nil, errors.New("no dot for you")
		}),
		"panic": layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
			panic("boom")
		}),
		"incomplete": layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
			return map[string]layout.Point{"A": {X: 1, Y: 1}}, nil
		}),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			g := Build(context.Background(), set, collapse.Set{}, Options{Engine: engine})
			if g.Layout != LayoutGrid || g.Fallback == "" {
				t.Errorf("Layout = %q, Fallback = %q, want grid with reason", g.Layout, g.Fallback)
			}
			if len(g.Nodes) != 5 {
				t.Fatalf("nodes = %v, want 5", nodeIDs(g))
			}
			seen := map[[2]float64]string{}
			for _, n := range g.Nodes {
				k := [2]float64{n.X, n.Y}
				if other, dup := seen[k]; dup {
					t.Errorf("%s and %s share (%v, %v)", n.ID, other, n.X, n.Y)
				}
				seen[k] = n.ID
			}
		})
	}
}

func TestBuildBrokenFallback(t *testing.T) {
	set := normalize(t, []org.Record{{ID: "A"}, {ID: "B", SuperiorID: "A"}})
	broken := layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
		return nil, errors.New("broken")
	})
	g := Build(context.Background(), set, collapse.Set{}, Options{Engine: broken, Fallback: broken})
	if g.Layout != LayoutGrid || len(g.Nodes) != 2 || g.Nodes[0].X == g.Nodes[1].X && g.Nodes[0].Y == g.Nodes[1].Y {
		t.Errorf("graph = %+v", g)
	}
}

func TestBuildTopLeftOrigin(t *testing.T) {
	set := normalize(t, []org.Record{{ID: "A"}})
	center := layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
		return map[string]layout.Point{"A": {X: 300, Y: 100}}, nil
	})
	g := Build(context.Background(), set, collapse.Set{}, Options{Engine: center, NodeWidth: 200, NodeHeight: 80})
	a := g.Nodes[0]
	if a.X != 200 || a.Y != 60 || a.Width != 200 || a.Height != 80 {
		t.Errorf("A = %+v, want origin (200,60) size 200x80", a)
	}
	if g.Width != 400 || g.Height != 140 {
		t.Errorf("extent = %vx%v, want 400x140", g.Width, g.Height)
	}
}

func TestBuildDirectionFlags(t *testing.T) {
	set := normalize(t, []org.Record{
		{ID: "P"},
		{ID: "below", SuperiorID: "P", Priority: org.Int(1)},
		{ID: "left", SuperiorID: "P", Priority: org.Int(2)},
		{ID: "right", SuperiorID: "P", Priority: org.Int(3)},
	})
	fixed := map[string]layout.Point{
		"P":     {X: 500, Y: 100},
		"below": {X: 500, Y: 400},
		"left":  {X: 100, Y: 150},
		"right": {X: 900, Y: 150},
	}
	engine := layout.EngineFunc(func(context.Context, []layout.Box, []layout.Edge) (map[string]layout.Point, error) {
		return fixed, nil
	})

	g := Build(context.Background(), set, collapse.Set{}, Options{Engine: engine})

	p, _ := g.Node("P")
	if p.HasParent || !p.HasChildren || !p.HasBottomChildren || !p.HasLeftChildren || !p.HasRightChildren {
		t.Errorf("P flags = %+v", p)
	}
	tests := []struct {
		id      string
		subRoot bool
	}{
		{"below", false},
		{"left", true},
		{"right", true},
	}
	for _, tt := range tests {
		n, _ := g.Node(tt.id)
		if !n.HasParent || n.SubColumnRoot != tt.subRoot {
			t.Errorf("%s: HasParent=%v SubColumnRoot=%v, want true/%v", tt.id, n.HasParent, n.SubColumnRoot, tt.subRoot)
		}
	}
}

func TestFromRecordsSelfReference(t *testing.T) {
	g, err := FromRecords(context.Background(), []org.Record{
		{ID: "A"},
		{ID: "B", SuperiorID: "A"},
		{ID: "X", SuperiorID: "X"},
	}, collapse.Set{}, Options{Engine: stacked})

	ie, ok := orgerrors.AsIntegrity(err)
	if !ok || !ie.Has(orgerrors.IssueSelfReference, "X") {
		t.Fatalf("err = %v, want self reference on X", err)
	}
	if got := nodeIDs(g); !slices.Equal(got, []string{"A", "X", "B"}) {
		t.Errorf("nodes = %v, want [A X B]", got)
	}
	x, _ := g.Node("X")
	if x.HasParent {
		t.Error("X should be a root")
	}
}

func TestEmptyGraphJSON(t *testing.T) {
	g := Build(context.Background(), normalize(t, nil), collapse.Set{}, Options{Engine: stacked})
	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) || !bytes.Contains(data, []byte(`"edges": []`)) {
		t.Errorf("empty graph JSON = %s", data)
	}

	back, err := Read(bytes.NewReader(data))
	if err != nil || len(back.Nodes) != 0 {
		t.Errorf("Read() = %+v, %v", back, err)
	}
}

func TestDOT(t *testing.T) {
	set := normalize(t, []org.Record{{ID: "A"}, {ID: "B", SuperiorID: "A"}})
	dot := Build(context.Background(), set, collapse.Set{}, Options{Engine: stacked}).DOT()
	if !strings.Contains(dot, `"A" -> "B"`) {
		t.Errorf("DOT() = %s", dot)
	}
}
