package pipeline

import (
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/layout"
)

// NewEngine returns the layout engine named by opts. opts.Layout, when set,
// wins over the name.
func NewEngine(opts Options) layout.Engine {
	if opts.Layout != nil {
		return opts.Layout
	}
	switch opts.Engine {
	case EngineGrid:
		return layout.Grid{Columns: opts.GridColumns}
	default:
		return layout.NewGraphviz()
	}
}

// GraphOptions converts validated Options into [graph.Options].
func GraphOptions(opts Options) graph.Options {
	name := opts.Engine
	if opts.Layout != nil {
		name = graph.LayoutEngine
	}
	return graph.Options{
		Engine:     NewEngine(opts),
		EngineName: name,
		Fallback:   layout.Grid{Columns: opts.GridColumns},
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
	}
}
