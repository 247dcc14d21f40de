// Package graph assembles positioned org charts.
//
// [Build] takes a normalized working set and a collapse state and returns a
// [Graph] of visible billets with top-left box origins, the edges a user sees,
// and per-node flags a renderer needs:
//
//   - HasParent, HasChildren: structure of the active hierarchy
//   - HasLeftChildren, HasRightChildren, HasBottomChildren: where the
//     children ended up relative to the node
//   - Collapsed: the node is in the collapse set
//   - SubColumnRoot: the node's incoming edge arrives from the side
//
// # Layout
//
// Positions come from a [layout.Engine]. Reservists are attached to their
// superior through a virtual anchor so that the engine ranks them one tier
// lower; anchors are removed before the graph is returned and rendered edges
// always run superior→reservist.
//
// The engine is allowed to fail. Errors, panics, missing ids and non-finite
// coordinates all lead to a fixed-column grid placement with
// [Graph.Layout] set to [LayoutGrid]:
//
//	g := graph.Build(ctx, set, collapsed, graph.Options{Engine: layout.NewGraphviz()})
//	if g.Layout == graph.LayoutGrid {
//		logger.Warn("layout fell back to grid", "reason", g.Fallback)
//	}
//
// # Serialization
//
// [Marshal], [Write] and [WriteFile] encode a graph as JSON for the HTTP API
// and the CLI; [Graph.DOT] writes the rendered structure as Graphviz DOT.
package graph
