// Package pipeline provides the fetch → normalize → build pipeline shared by
// the CLI and the HTTP API.
//
// By centralizing this logic, both entry points degrade the same way: a
// failing source yields an empty chart, a failing layout engine yields a grid,
// and only data-integrity problems travel back to the caller.
//
// # Stages
//
//  1. Fetch: read billets and elements from the configured source
//  2. Normalize: repair the flat records into a working set
//  3. Build: resolve visibility, separate reservists and lay out the graph
//
// # Usage
//
//	runner, err := pipeline.NewRunner(src, pipeline.Options{Engine: pipeline.EngineGraphviz}, logger)
//	if err != nil {
//	    return err
//	}
//	g, err := runner.Graph(ctx, collapse.Parse("ops,hr"))
//	if ie, ok := errors.AsIntegrity(err); ok {
//	    // g is still complete; ie lists what was repaired
//	}
package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/layout"
)

// Layout engines.
const (
	EngineGraphviz = config.EngineGraphviz
	EngineGrid     = config.EngineGrid
)

const (
	// DefaultEngine is the layout engine used when none is configured.
	DefaultEngine = EngineGraphviz

	// DefaultGridColumns is the column count of the grid engine and of the
	// fallback placement.
	DefaultGridColumns = layout.DefaultGridColumns
)

// Output formats for a built graph.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineGraphviz: true,
	EngineGrid:     true,
}

// ValidFormats is the set of supported graph output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateEngine checks that an engine name is supported.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid layout engine: %q (must be one of: graphviz, grid)", engine)
	}
	return nil
}

// ValidateFormat checks that a graph output format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot)", format)
	}
	return nil
}

// Options configures graph building.
type Options struct {
	Engine      string  `json:"engine,omitempty"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`
	GridColumns int     `json:"grid_columns,omitempty"`

	// Layout overrides Engine with a custom engine. Used by tests and by
	// callers that bring their own placement.
	Layout layout.Engine `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// OptionsFromConfig maps the [layout] configuration section to Options.
func OptionsFromConfig(c config.Layout) Options {
	return Options{
		Engine:      c.Engine,
		NodeWidth:   c.NodeWidth,
		NodeHeight:  c.NodeHeight,
		GridColumns: c.GridColumns,
	}
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = graph.DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = graph.DefaultNodeHeight
	}
	if o.GridColumns <= 0 {
		o.GridColumns = DefaultGridColumns
	}
}

// Validate checks option values. Call after SetDefaults.
func (o *Options) Validate() error {
	if o.Layout == nil {
		if err := ValidateEngine(o.Engine); err != nil {
			return err
		}
	}
	if o.NodeWidth < 1 || o.NodeHeight < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "node box must be at least 1x1, got %gx%g", o.NodeWidth, o.NodeHeight)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	o.validated = true
	return nil
}
