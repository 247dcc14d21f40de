package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Layout names reported in [Graph.Layout].
const (
	LayoutEngine = "engine"
	LayoutGrid   = "grid"
)

// Graph is a positioned chart ready for rendering.
type Graph struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Layout names the engine that placed the nodes: Options.EngineName on
	// success and LayoutGrid when the fallback did.
	Layout string `json:"layout"`

	// Fallback explains why the grid was used. Empty otherwise.
	Fallback string `json:"fallback,omitempty"`
}

// RenderNode is a visible billet with its top-left box origin.
type RenderNode struct {
	ID          string      `json:"id"`
	Role        string      `json:"role,omitempty"`
	ElementID   string      `json:"element_id,omitempty"`
	ElementName string      `json:"element_name,omitempty"`
	ElementIcon string      `json:"element_icon,omitempty"`
	Occupant    *org.Person `json:"occupant,omitempty"`
	Reservist   bool        `json:"reservist,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	HasParent         bool `json:"has_parent"`
	HasChildren       bool `json:"has_children"`
	HasLeftChildren   bool `json:"has_left_children"`
	HasRightChildren  bool `json:"has_right_children"`
	HasBottomChildren bool `json:"has_bottom_children"`
	Collapsed         bool `json:"collapsed"`
	SubColumnRoot     bool `json:"sub_column_root"`
}

// Vacant reports whether nobody occupies the billet.
func (n RenderNode) Vacant() bool { return n.Occupant == nil }

// RenderEdge is an edge the user sees. Layout-only edges through anchors are
// never included.
type RenderEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func edgeID(source, target string) string { return source + "->" + target }

// Node returns the rendered node with the given id.
func (g *Graph) Node(id string) (RenderNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return RenderNode{}, false
}

// DOT returns the rendered nodes and edges as Graphviz DOT, sized like the
// rendered boxes. Positions are not included.
func (g *Graph) DOT() string {
	boxes := make([]layout.Box, len(g.Nodes))
	for i, n := range g.Nodes {
		boxes[i] = layout.Box{ID: n.ID, Width: n.Width, Height: n.Height}
	}
	edges := make([]layout.Edge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = layout.Edge{From: e.Source, To: e.Target}
	}
	return layout.ToDOT(boxes, edges, layout.DefaultDOTOptions)
}

// Marshal encodes g as indented JSON.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes g as indented JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes g as JSON to path.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes a graph previously written with [Write].
func Read(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &g, nil
}
