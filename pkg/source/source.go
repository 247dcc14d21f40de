// Package source fetches org record snapshots.
//
// A [Fetcher] returns the full [org.Dataset] every time it is called; there
// are no incremental reads. Three backends are provided:
//
//   - [File]: a JSON or TOML file, for the CLI and tests
//   - [Mongo]: "billets" and "elements" collections
//   - [Postgres]: billets joined with elements and people
//
// [Cached] wraps any Fetcher with an explicit cache window and tag-based
// invalidation.
package source

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Source kinds accepted by [Config.Kind].
const (
	KindFile     = "file"
	KindMongo    = "mongo"
	KindPostgres = "postgres"
)

// Fetcher returns a snapshot of the hierarchy.
type Fetcher interface {
	// Name identifies the source in logs, metrics and cache keys.
	Name() string

	Fetch(ctx context.Context) (org.Dataset, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind string `toml:"kind"`

	// file
	Path string `toml:"path"`

	// mongo
	URI                string `toml:"uri"`
	Database           string `toml:"database"`
	BilletsCollection  string `toml:"billets_collection"`
	ElementsCollection string `toml:"elements_collection"`

	// postgres
	DSN string `toml:"dsn"`
}

// Validate checks that the fields the kind needs are set.
func (c Config) Validate() error {
	switch c.Kind {
	case KindFile:
		if c.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.path is required for kind %q", c.Kind)
		}
	case KindMongo:
		if c.URI == "" || c.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.uri and source.database are required for kind %q", c.Kind)
		}
	case KindPostgres:
		if c.DSN == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.dsn is required for kind %q", c.Kind)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q (want file, mongo or postgres)", c.Kind)
	}
	return nil
}

// New opens the backend described by cfg. Database backends connect
// eagerly so that bad credentials fail at startup.
func New(ctx context.Context, cfg Config) (Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindMongo:
		return NewMongo(ctx, MongoConfig{
			URI:                cfg.URI,
			Database:           cfg.Database,
			BilletsCollection:  cfg.BilletsCollection,
			ElementsCollection: cfg.ElementsCollection,
		})
	case KindPostgres:
		return NewPostgres(ctx, cfg.DSN)
	default:
		return NewFile(cfg.Path), nil
	}
}

func fetchFailed(name string, err error) error {
	return errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", name)
}

// Static serves a fixed dataset. It is used by tests and by callers that
// already hold records in memory.
type Static struct {
	ID      string
	Dataset org.Dataset
	Err     error
}

// Name returns "static:<id>".
func (s *Static) Name() string { return fmt.Sprintf("static:%s", s.ID) }

// Fetch returns the dataset or the configured error.
func (s *Static) Fetch(context.Context) (org.Dataset, error) {
	if s.Err != nil {
		return org.Dataset{}, s.Err
	}
	return s.Dataset, nil
}

// Close does nothing.
func (s *Static) Close() error { return nil }
