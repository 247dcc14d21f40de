package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{"Valid", Node{ID: "a"}, nil},
		{"EmptyID", Node{ID: ""}, ErrInvalidNodeID},
		{"Duplicate", Node{ID: "dup"}, ErrDuplicateNodeID},
	}

	g := New()
	_ = g.AddNode(Node{ID: "dup"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddNode(tt.node); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	n, ok := g.Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.Meta == nil {
		t.Error("Meta should be initialized")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	if err := g.AddEdge(Edge{From: "x", To: "b"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: got %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if got := g.Children("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Children(a) = %v, want [b]", got)
	}
	if got := g.Parents("b"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Parents(b) = %v, want [a]", got)
	}
	if g.InDegree("b") != 1 || g.OutDegree("a") != 1 || g.EdgeCount() != 1 {
		t.Error("degree bookkeeping mismatch")
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}

	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	if !slices.Equal(got, ids) {
		t.Errorf("Nodes() order = %v, want %v", got, ids)
	}
}

func TestSources(t *testing.T) {
	g := New()
	for _, id := range []string{"r1", "c", "r2"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "r1", To: "c"})

	var got []string
	for _, n := range g.Sources() {
		got = append(got, n.ID)
	}
	if !slices.Equal(got, []string{"r1", "r2"}) {
		t.Errorf("Sources() = %v, want [r1 r2]", got)
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  [][]string
	}{
		{
			name:  "Forest",
			edges: []Edge{{"a", "b"}, {"a", "c"}, {"c", "d"}},
			want:  nil,
		},
		{
			name:  "SelfLoop",
			edges: []Edge{{"b", "b"}},
			want:  [][]string{{"b"}},
		},
		{
			name:  "TwoCycle",
			edges: []Edge{{"c", "d"}, {"d", "c"}},
			want:  [][]string{{"c", "d"}},
		},
		{
			name:  "CycleBelowRoot",
			edges: []Edge{{"a", "b"}, {"b", "c"}, {"c", "b"}},
			want:  [][]string{{"b", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, id := range []string{"a", "b", "c", "d"} {
				_ = g.AddNode(Node{ID: id})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(e)
			}

			got := g.Cycles()
			if len(got) != len(tt.want) {
				t.Fatalf("Cycles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("cycle %d = %v, want %v", i, got[i], tt.want[i])
				}
			}

			wantErr := len(tt.want) > 0
			if err := g.Validate(); (err != nil) != wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, wantErr)
			}
		})
	}
}

func TestIsAnchor(t *testing.T) {
	if (Node{ID: "a"}).IsAnchor() {
		t.Error("regular node reported as anchor")
	}
	if !(Node{ID: "a", Kind: NodeKindAnchor}).IsAnchor() {
		t.Error("anchor node not reported as anchor")
	}
}
