// Package dag provides the directed graph shared by the normalizer and the
// graph assembler.
//
// # Overview
//
// Organizational records form a forest: every billet has at most one
// superior. Bad data can still introduce cycles, and layout needs extra
// helper nodes, so the structure here is a general directed graph with two
// node kinds:
//
//   - [NodeKindRegular]: a billet from the fetched records
//   - [NodeKindAnchor]: a layout-only node that is never rendered
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "cmd", Width: 220, Height: 80})
//	g.AddNode(dag.Node{ID: "xo", Width: 220, Height: 80})
//	g.AddEdge(dag.Edge{From: "cmd", To: "xo"})
//
// Nodes, edges and sources are returned in insertion order. [DAG.Cycles]
// runs a white/gray/black depth-first search and reports each cycle it
// closes, which the normalizer uses to break superior loops.
//
// # Concurrency
//
// DAG is not safe for concurrent mutation. Builds create a fresh DAG per
// call and never share it.
package dag
