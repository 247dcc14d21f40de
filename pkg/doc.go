// Package pkg holds the orgchart libraries.
//
// # Overview
//
// Orgchart turns flat billet records into a collapsible organizational chart.
// Records come from a file, MongoDB or PostgreSQL; they are repaired into a
// forest, reservists are split off into their own lane, and the visible part
// of the hierarchy is laid out for a renderer.
//
// # Architecture
//
//	[source] (file, mongo, postgres; optionally [cache]d)
//	     ↓
//	[org] (normalize: dedupe, orphans, cycles, priorities)
//	     ↓
//	[reservist] (active forest + reservist anchors)
//	     ↓
//	[visibility] + [collapse] (what the user can see)
//	     ↓
//	[graph] (positioned nodes via [layout], grid fallback)
//	     ↓
//	JSON / DOT / terminal tree / HTTP API
//
// [pipeline] wires these stages together with logging and [observability]
// hooks. [server] exposes them over HTTP; the orgchart command exposes them
// in the terminal.
//
// # Main Packages
//
// [org] - Record, Node and Element types and [org.Normalize], which never
// fails: broken records are repaired and reported as an
// [errors.IntegrityError].
//
// [dag] - Directed graph with anchor nodes, used as the layout input.
//
// [tree] - Generic tree builder, the active hierarchy and the element tree
// with its billet rows.
//
// [collapse] - Collapse sets, toggling and the session store.
//
// [layout] - Layout engines: Graphviz and a fixed-column grid.
//
// [cache] - Record cache backends: file, memory (LRU) and Redis.
//
// [config] - TOML, .env and environment configuration.
//
// # Quick Start
//
//	src, _ := source.New(ctx, source.Config{Kind: source.KindFile, Path: "org.json"})
//	r, _ := pipeline.NewRunner(src, pipeline.Options{Engine: pipeline.EngineGrid}, logger)
//	g, err := r.Graph(ctx, collapse.Parse("ops"))
//	if err != nil {
//		// records were repaired; g is still complete
//	}
//	_ = pipeline.WriteGraph(os.Stdout, g, pipeline.FormatJSON)
package pkg
