package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/reservist"
	"github.com/matzehuels/orgchart/pkg/source"
	"github.com/matzehuels/orgchart/pkg/tree"
	"github.com/matzehuels/orgchart/pkg/visibility"
)

// Runner executes the pipeline against one source.
//
// The Runner does not store pipeline results: every call reads the source
// again (through its cache, if the source is wrapped in [source.Cached]).
// Multiple goroutines can safely use the same Runner.
type Runner struct {
	Source  source.Fetcher
	Options Options
	Logger  *log.Logger
}

// NewRunner creates a runner for src. Options are validated and defaulted;
// a nil logger uses log.Default().
func NewRunner(src source.Fetcher, opts Options, logger *log.Logger) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = opts.Logger
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Options: opts, Logger: logger}, nil
}

// Graph builds the positioned chart for the collapse state. The graph is
// always returned; the error, if any, is an [errors.IntegrityError].
func (r *Runner) Graph(ctx context.Context, collapsed collapse.Set) (*graph.Graph, error) {
	snap := r.Load(ctx)
	return r.BuildGraph(ctx, snap, collapsed), snap.Integrity
}

// BuildGraph lays out an already loaded snapshot.
func (r *Runner) BuildGraph(ctx context.Context, snap *Snapshot, collapsed collapse.Set) *graph.Graph {
	start := time.Now()
	g := graph.Build(ctx, snap.Set, collapsed, GraphOptions(r.Options))
	elapsed := time.Since(start)

	if g.Fallback != "" {
		r.Logger.Warn("layout engine failed, using grid",
			"engine", r.Options.Engine,
			"reason", g.Fallback)
	}
	r.Logger.Info("built graph",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"collapsed", collapsed.Len(),
		"layout", g.Layout,
		"duration", elapsed)
	observability.Build().OnBuildComplete(ctx, len(g.Nodes), g.Layout, elapsed)
	return g
}

// Tree returns the active billets nested under their superiors, reservists
// excluded.
func (r *Runner) Tree(ctx context.Context) ([]*tree.Node[org.Node], error) {
	snap := r.Load(ctx)
	roots, err := tree.BuildNodes(snap.Set)
	return roots, errors.MergeIntegrity(snap.Integrity, err)
}

// Roster returns the reservists grouped by element.
func (r *Runner) Roster(ctx context.Context) ([]org.Node, error) {
	snap := r.Load(ctx)
	return reservist.Roster(reservist.Separate(snap.Set)), snap.Integrity
}

// Elements returns the element tree with billets inlined as rows.
func (r *Runner) Elements(ctx context.Context) ([]*tree.Node[tree.ElementItem], error) {
	snap := r.Load(ctx)
	roots, err := tree.BuildElements(snap.Elements, snap.Set.Nodes())
	if ie, ok := errors.AsIntegrity(err); ok {
		r.reportIntegrity(ctx, ie)
	}
	return roots, errors.MergeIntegrity(snap.Integrity, err)
}

// Toggle flips id in collapsed against the current active hierarchy.
// It returns the new collapsed state of id, or [visibility.ErrNotCollapsible]
// for leaves, reservists and unknown ids.
func (r *Runner) Toggle(ctx context.Context, collapsed *collapse.Set, id string) (bool, error) {
	snap := r.Load(ctx)
	return Toggle(snap, collapsed, id)
}

// Toggle flips id in collapsed against snap.
func Toggle(snap *Snapshot, collapsed *collapse.Set, id string) (bool, error) {
	forest := visibility.NewForest(reservist.Separate(snap.Set).Active)
	return forest.Toggle(collapsed, id)
}

// Invalidate drops cached records for the source. It is a no-op for
// uncached sources.
func (r *Runner) Invalidate(ctx context.Context) error {
	inv, ok := r.Source.(interface {
		Invalidate(context.Context) error
	})
	if !ok {
		return nil
	}
	if err := inv.Invalidate(ctx); err != nil {
		return err
	}
	r.Logger.Info("invalidated cached records", "source", r.Source.Name())
	return nil
}

// Close releases the source.
func (r *Runner) Close() error { return r.Source.Close() }
