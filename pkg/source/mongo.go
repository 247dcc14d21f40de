package source

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Default collection names.
const (
	DefaultBilletsCollection  = "billets"
	DefaultElementsCollection = "elements"
)

// MongoConfig configures [NewMongo].
type MongoConfig struct {
	URI                string
	Database           string
	BilletsCollection  string
	ElementsCollection string
}

// Mongo reads billets and elements from two collections. Documents decode
// straight into [org.Record] and [org.Element] via their bson tags.
type Mongo struct {
	client   *mongo.Client
	billets  *mongo.Collection
	elements *mongo.Collection
	name     string
}

// NewMongo connects and pings the server.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.BilletsCollection == "" {
		cfg.BilletsCollection = DefaultBilletsCollection
	}
	if cfg.ElementsCollection == "" {
		cfg.ElementsCollection = DefaultElementsCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return &Mongo{
		client:   client,
		billets:  db.Collection(cfg.BilletsCollection),
		elements: db.Collection(cfg.ElementsCollection),
		name:     KindMongo + ":" + cfg.Database,
	}, nil
}

// Name returns "mongo:<database>".
func (m *Mongo) Name() string { return m.name }

// Fetch reads both collections. Network errors and timeouts are retried.
func (m *Mongo) Fetch(ctx context.Context) (org.Dataset, error) {
	var ds org.Dataset
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		ds, err = m.fetchOnce(ctx)
		if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
			return cache.Retryable(err)
		}
		return err
	})
	if err != nil {
		return org.Dataset{}, fetchFailed(m.name, err)
	}
	return ds, nil
}

func (m *Mongo) fetchOnce(ctx context.Context) (org.Dataset, error) {
	var ds org.Dataset

	cur, err := m.billets.Find(ctx, bson.D{})
	if err != nil {
		return ds, err
	}
	if err := cur.All(ctx, &ds.Billets); err != nil {
		return ds, fmt.Errorf("decode billets: %w", err)
	}

	cur, err = m.elements.Find(ctx, bson.D{})
	if err != nil {
		return ds, err
	}
	if err := cur.All(ctx, &ds.Elements); err != nil {
		return ds, fmt.Errorf("decode elements: %w", err)
	}
	return ds, nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}
