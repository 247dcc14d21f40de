package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/org"
)

// billetsQuery expects tables billets, elements and people. Occupant and
// element columns come back NULL for vacant or unassigned billets.
const billetsQuery = `
SELECT b.id,
       coalesce(b.role, ''),
       coalesce(b.element_id, ''),
       coalesce(e.name, ''),
       coalesce(e.icon, ''),
       coalesce(b.superior_id, ''),
       b.priority,
       b.reservist,
       p.id,
       p.name,
       p.service_number,
       p.rank
FROM billets b
LEFT JOIN elements e ON e.id = b.element_id
LEFT JOIN people p ON p.id = b.occupant_id
ORDER BY b.id
`

const elementsQuery = `
SELECT id, name, coalesce(icon, ''), coalesce(parent_id, ''), priority
FROM elements
ORDER BY id
`

// Postgres reads billets and elements through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgres opens a pool and pings the database.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	name := KindPostgres
	if db := pool.Config().ConnConfig.Database; db != "" {
		name += ":" + db
	}
	return &Postgres{pool: pool, name: name}, nil
}

// Name returns "postgres:<database>".
func (p *Postgres) Name() string { return p.name }

// Fetch runs both queries. Timeouts are retried.
func (p *Postgres) Fetch(ctx context.Context) (org.Dataset, error) {
	var ds org.Dataset
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		ds, err = p.fetchOnce(ctx)
		if err != nil && pgconn.Timeout(err) {
			return cache.Retryable(err)
		}
		return err
	})
	if isUndefinedTable(err) {
		return org.Dataset{}, fetchFailed(p.name+" (schema not migrated)", err)
	}
	if err != nil {
		return org.Dataset{}, fetchFailed(p.name, err)
	}
	return ds, nil
}

func (p *Postgres) fetchOnce(ctx context.Context) (org.Dataset, error) {
	var ds org.Dataset

	rows, err := p.pool.Query(ctx, billetsQuery)
	if err != nil {
		return ds, err
	}
	ds.Billets, err = pgx.CollectRows(rows, scanBillet)
	if err != nil {
		return ds, fmt.Errorf("billets: %w", err)
	}

	rows, err = p.pool.Query(ctx, elementsQuery)
	if err != nil {
		return ds, err
	}
	ds.Elements, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (org.Element, error) {
		var e org.Element
		err := row.Scan(&e.ID, &e.Name, &e.Icon, &e.ParentID, &e.Priority)
		return e, err
	})
	if err != nil {
		return ds, fmt.Errorf("elements: %w", err)
	}
	return ds, nil
}

func scanBillet(row pgx.CollectableRow) (org.Record, error) {
	var (
		r                      org.Record
		personID, personName   *string
		serviceNumber, rankAbb *string
	)
	err := row.Scan(&r.ID, &r.Role, &r.ElementID, &r.ElementName, &r.ElementIcon, &r.SuperiorID,
		&r.Priority, &r.Reservist, &personID, &personName, &serviceNumber, &rankAbb)
	if err != nil {
		return r, err
	}
	if personID != nil {
		r.Occupant = &org.Person{
			ID:               *personID,
			Name:             deref(personName),
			ServiceNumber:    deref(serviceNumber),
			RankAbbreviation: deref(rankAbb),
		}
	}
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
