// Package mongo implementa el store de documentos sobre MongoDB
// (esquemas mongodb:// y mongodb+srv://).
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dropDatabas3/restopos/internal/store"
)

// DefaultDatabase se usa cuando ni la config ni la URI nombran una base.
const DefaultDatabase = "restopos"

func init() {
	store.RegisterAdapter(mongoAdapter{})
}

type mongoAdapter struct{}

func (mongoAdapter) Name() string      { return "mongo" }
func (mongoAdapter) Schemes() []string { return []string{"mongodb", "mongodb+srv"} }

func (mongoAdapter) Connect(ctx context.Context, cfg store.Config) (store.Handle, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts.SetConnectTimeout(timeout)
	opts.SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &conn{client: client, db: client.Database(databaseName(cfg))}, nil
}

func databaseName(cfg store.Config) string {
	if cfg.Database != "" {
		return cfg.Database
	}
	if u, err := url.Parse(cfg.URI); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return DefaultDatabase
}

type conn struct {
	client *mongo.Client
	db     *mongo.Database
}

func (c *conn) Name() string { return "mongo" }

func (c *conn) Collection(name string) store.Collection {
	return &collection{coll: c.db.Collection(name)}
}

func (c *conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	return c.find(ctx, bson.D{})
}

func (c *collection) FindByIDs(ctx context.Context, ids []string) ([]store.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// Las referencias llegan como hex; se buscan como ObjectID y como string.
	in := make(bson.A, 0, len(ids)*2)
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			in = append(in, oid)
		}
		in = append(in, id)
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": in}})
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, bson.M{field: value}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find one %s: %w", c.coll.Name(), err)
	}
	return toDocument(raw), nil
}

func (c *collection) Insert(ctx context.Context, doc store.Document) (store.Document, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, fmt.Errorf("mongo: insert %s: %w", c.coll.Name(), err)
	}
	out := make(store.Document, len(doc)+1)
	for k, v := range doc {
		out[k] = normalize(v)
	}
	out[store.IDField] = normalize(res.InsertedID)
	return out, nil
}

func (c *collection) find(ctx context.Context, filter any) ([]store.Document, error) {
	cur, err := c.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: find %s: %w", c.coll.Name(), err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongo: decode %s: %w", c.coll.Name(), err)
	}
	out := make([]store.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, toDocument(m))
	}
	return out, nil
}

func toDocument(m bson.M) store.Document {
	out := make(store.Document, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// normalize convierte tipos BSON a valores JSON-friendly.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case bson.M:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = normalize(vv)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = normalize(vv)
		}
		return s
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = normalize(vv)
		}
		return s
	default:
		return v
	}
}
