// Package memory implementa un store de documentos en proceso (memory://).
// Pensado para desarrollo local y tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dropDatabas3/restopos/internal/store"
)

func init() {
	store.RegisterAdapter(memoryAdapter{})
}

type memoryAdapter struct{}

func (memoryAdapter) Name() string      { return "memory" }
func (memoryAdapter) Schemes() []string { return []string{"memory"} }

func (memoryAdapter) Connect(_ context.Context, _ store.Config) (store.Handle, error) {
	return New(), nil
}

// DB es un store en memoria. Cada Connect crea uno vacío.
type DB struct {
	mu          sync.RWMutex
	collections map[string][]store.Document
	closed      bool
}

// New crea un DB vacío.
func New() *DB {
	return &DB{collections: make(map[string][]store.Document)}
}

func (db *DB) Name() string { return "memory" }

func (db *DB) Collection(name string) store.Collection {
	return &collection{db: db, name: name}
}

func (db *DB) Ping(context.Context) error { return nil }

func (db *DB) Close(context.Context) error {
	db.mu.Lock()
	db.closed = true
	db.mu.Unlock()
	return nil
}

type collection struct {
	db   *DB
	name string
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	docs := c.db.collections[c.name]
	out := make([]store.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, cloneDoc(d))
	}
	return out, nil
}

func (c *collection) FindByIDs(ctx context.Context, ids []string) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	var out []store.Document
	for _, d := range c.db.collections[c.name] {
		if _, ok := want[d.ID()]; ok {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := store.IDString(value)
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	for _, d := range c.db.collections[c.name] {
		if v, ok := d[field]; ok && store.IDString(v) == needle {
			return cloneDoc(d), nil
		}
	}
	return nil, store.ErrNotFound
}

func (c *collection) Insert(ctx context.Context, doc store.Document) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := cloneDoc(doc)
	if d.ID() == "" {
		d[store.IDField] = uuid.NewString()
	}
	c.db.mu.Lock()
	c.db.collections[c.name] = append(c.db.collections[c.name], d)
	c.db.mu.Unlock()
	return cloneDoc(d), nil
}

func cloneDoc(d store.Document) store.Document {
	out := make(store.Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case store.Document:
		return cloneDoc(t)
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return v
	}
}
