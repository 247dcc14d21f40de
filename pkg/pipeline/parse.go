package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Snapshot is one normalized read of the source.
type Snapshot struct {
	Set      *org.Set
	Elements []org.Element

	// Integrity lists what normalization repaired. Nil when the records
	// were clean.
	Integrity error
}

// Fetch reads the source. A failing source is logged and reported as an
// empty dataset; Fetch never returns an error.
func (r *Runner) Fetch(ctx context.Context) org.Dataset {
	hooks := observability.Build()
	name := r.Source.Name()
	hooks.OnFetchStart(ctx, name)

	start := time.Now()
	ds, err := r.Source.Fetch(ctx)
	elapsed := time.Since(start)
	hooks.OnFetchComplete(ctx, name, len(ds.Billets), elapsed, err)

	if err != nil {
		r.Logger.Error("fetch failed, showing empty chart",
			"source", name,
			"error", err,
			"duration", elapsed)
		return org.Dataset{}
	}
	r.Logger.Debug("fetched records",
		"source", name,
		"billets", len(ds.Billets),
		"elements", len(ds.Elements),
		"duration", elapsed)
	return ds
}

// Load fetches and normalizes. Superior links that point outside the set
// are logged as warnings; integrity repairs are logged, counted and kept on
// the snapshot.
func (r *Runner) Load(ctx context.Context) *Snapshot {
	ds := r.Fetch(ctx)
	set, err := org.Normalize(ds.ResolvedBillets())

	for _, m := range set.MissingReferences() {
		msg := "superior not in working set, treating as root"
		if m.ReservistSuperior {
			msg = "superior is a reservist, treating as root"
		}
		r.Logger.Warn(msg, "billet", m.NodeID, "superior", m.SuperiorID)
	}
	r.reportIntegrity(ctx, err)

	return &Snapshot{Set: set, Elements: ds.Elements, Integrity: err}
}

func (r *Runner) reportIntegrity(ctx context.Context, err error) {
	ie, ok := errors.AsIntegrity(err)
	if !ok {
		return
	}
	hooks := observability.Build()
	for _, is := range ie.Issues {
		hooks.OnIntegrityIssue(ctx, string(is.Kind))
		r.Logger.Warn("repaired record", "issue", is.Kind, "billet", is.NodeID, "detail", is.Detail)
	}
}
