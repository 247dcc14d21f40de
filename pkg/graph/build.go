package graph

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/dag"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/reservist"
	"github.com/matzehuels/orgchart/pkg/visibility"
)

// Default box sizes in pixels.
const (
	DefaultNodeWidth    = 220.0
	DefaultNodeHeight   = 90.0
	DefaultAnchorWidth  = 1.0
	DefaultAnchorHeight = 1.0
)

// Options configures [Build]. The zero value lays out on the grid only.
type Options struct {
	// Engine places the nodes. When nil, or when it fails, Fallback is used.
	Engine layout.Engine

	// EngineName is reported in Graph.Layout when Engine succeeds.
	// Defaults to LayoutEngine.
	EngineName string

	// Fallback must always succeed. Defaults to layout.Grid{}.
	Fallback layout.Engine

	NodeWidth    float64
	NodeHeight   float64
	AnchorWidth  float64
	AnchorHeight float64
}

func (o *Options) setDefaults() {
	if o.EngineName == "" {
		o.EngineName = LayoutEngine
	}
	if o.Fallback == nil {
		o.Fallback = layout.Grid{}
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.AnchorWidth <= 0 {
		o.AnchorWidth = DefaultAnchorWidth
	}
	if o.AnchorHeight <= 0 {
		o.AnchorHeight = DefaultAnchorHeight
	}
}

// FromRecords normalizes records and builds their graph. The graph is always
// returned; the error, if any, is an [errors.IntegrityError] describing
// records that were repaired along the way.
func FromRecords(ctx context.Context, records []org.Record, collapsed collapse.Set, opts Options) (*Graph, error) {
	set, err := org.Normalize(records)
	return Build(ctx, set, collapsed, opts), err
}

// Build assembles the visible chart for set under the collapse state.
//
// Active billets reachable without passing a collapsed node are laid out
// together with the reservists of every visible, expanded superior. Each such
// superior gets a virtual anchor between itself and its reservists in the
// layout graph; anchors are dropped from the result. If the engine fails in
// any way the nodes are placed on the fallback grid instead.
func Build(ctx context.Context, set *org.Set, collapsed collapse.Set, opts Options) *Graph {
	opts.setDefaults()

	lanes := reservist.Separate(set)
	forest := visibility.NewForest(lanes.Active)
	visible := forest.Visible(collapsed)

	a := &assembly{
		opts:   opts,
		forest: forest,
		g:      dag.New(),
		byID:   make(map[string]org.Node, set.Len()),
	}
	for _, n := range set.Nodes() {
		a.byID[n.ID] = n
	}

	for _, id := range visible.IDs() {
		a.addNode(id)
	}
	for _, id := range visible.IDs() {
		if p := forest.Parent(id); p != "" {
			a.addEdge(p, id, true)
		}
	}
	for _, anchor := range lanes.Anchors {
		if !visible.Has(anchor.SuperiorID) || collapsed.Has(anchor.SuperiorID) {
			continue
		}
		a.addAnchor(anchor.ID)
		a.addEdge(anchor.SuperiorID, anchor.ID, false)
		for _, m := range anchor.Members {
			a.addNode(m)
			a.addEdge(anchor.ID, m, false)
			a.rendered = append(a.rendered, RenderEdge{ID: edgeID(anchor.SuperiorID, m), Source: anchor.SuperiorID, Target: m})
		}
	}

	out := &Graph{Nodes: []RenderNode{}, Edges: []RenderEdge{}, Layout: opts.EngineName}
	pos, err := a.place(ctx)
	if err != nil {
		out.Layout, out.Fallback = LayoutGrid, err.Error()
	}
	a.render(out, pos, collapsed)
	return out
}

type assembly struct {
	opts     Options
	forest   *visibility.Forest
	g        *dag.DAG
	byID     map[string]org.Node
	rendered []RenderEdge
}

func (a *assembly) addNode(id string) {
	_ = a.g.AddNode(dag.Node{ID: id, Width: a.opts.NodeWidth, Height: a.opts.NodeHeight})
}

func (a *assembly) addAnchor(id string) {
	_ = a.g.AddNode(dag.Node{ID: id, Kind: dag.NodeKindAnchor, Width: a.opts.AnchorWidth, Height: a.opts.AnchorHeight})
}

// addEdge records a layout edge, and a rendered edge when direct is set.
func (a *assembly) addEdge(from, to string, direct bool) {
	if err := a.g.AddEdge(dag.Edge{From: from, To: to}); err != nil {
		return
	}
	if direct {
		a.rendered = append(a.rendered, RenderEdge{ID: edgeID(from, to), Source: from, Target: to})
	}
}

// place runs the engine over the full layout graph and falls back to a grid
// of the rendered boxes. The returned error says why the fallback ran.
func (a *assembly) place(ctx context.Context) (map[string]layout.Point, error) {
	var all, rendered []layout.Box
	for _, n := range a.g.Nodes() {
		b := layout.Box{ID: n.ID, Width: n.Width, Height: n.Height}
		all = append(all, b)
		if !n.IsAnchor() {
			rendered = append(rendered, b)
		}
	}
	edges := make([]layout.Edge, 0, a.g.EdgeCount())
	for _, e := range a.g.Edges() {
		edges = append(edges, layout.Edge{From: e.From, To: e.To})
	}

	var cause error
	if a.opts.Engine == nil {
		cause = errors.New(errors.ErrCodeLayoutFailure, "no layout engine configured")
	} else {
		pos, err := layout.Call(ctx, a.opts.Engine, all, edges)
		if err == nil {
			return pos, nil
		}
		cause = err
	}

	pos, err := layout.Call(ctx, a.opts.Fallback, rendered, nil)
	if err != nil {
		// The fallback is user-supplied; the grid itself cannot fail.
		pos, _ = layout.Grid{}.Layout(ctx, rendered, nil)
		cause = fmt.Errorf("%w; fallback: %v", cause, err)
	}
	return pos, cause
}

func (a *assembly) render(out *Graph, pos map[string]layout.Point, collapsed collapse.Set) {
	index := make(map[string]int)
	for _, n := range a.g.Nodes() {
		if n.IsAnchor() {
			continue
		}
		src := a.byID[n.ID]
		tl := layout.TopLeft(pos[n.ID], layout.Box{Width: n.Width, Height: n.Height})
		index[n.ID] = len(out.Nodes)
		out.Nodes = append(out.Nodes, RenderNode{
			ID:          n.ID,
			Role:        src.Role,
			ElementID:   src.ElementID,
			ElementName: src.ElementName,
			ElementIcon: src.ElementIcon,
			Occupant:    src.Occupant,
			Reservist:   src.Reservist,
			X:           tl.X,
			Y:           tl.Y,
			Width:       n.Width,
			Height:      n.Height,
			HasChildren: a.forest.HasChildren(n.ID),
			Collapsed:   collapsed.Has(n.ID),
		})
	}

	for _, e := range a.rendered {
		pi, okP := index[e.Source]
		ci, okC := index[e.Target]
		if !okP || !okC {
			continue
		}
		parent, child := &out.Nodes[pi], &out.Nodes[ci]
		child.HasParent = true

		switch {
		case child.Y >= parent.Y+parent.Height:
			parent.HasBottomChildren = true
		case child.X+child.Width/2 < parent.X+parent.Width/2:
			parent.HasLeftChildren = true
			child.SubColumnRoot = true
		default:
			parent.HasRightChildren = true
			child.SubColumnRoot = true
		}
	}
	if len(a.rendered) > 0 {
		out.Edges = a.rendered
	}

	for _, n := range out.Nodes {
		out.Width = max(out.Width, n.X+n.Width)
		out.Height = max(out.Height, n.Y+n.Height)
	}
}
