// Package pg guarda documentos como filas JSONB en PostgreSQL
// (esquemas postgres:// y postgresql://).
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/restopos/internal/store"
	migrations "github.com/dropDatabas3/restopos/migrations/postgres"
)

func init() {
	store.RegisterAdapter(pgAdapter{})
}

type pgAdapter struct{}

func (pgAdapter) Name() string      { return "pg" }
func (pgAdapter) Schemes() []string { return []string{"postgres", "postgresql"} }

func (pgAdapter) Connect(ctx context.Context, cfg store.Config) (store.Handle, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &conn{pool: pool}, nil
}

// migrate aplica las migraciones embebidas. Todas son idempotentes.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := migrations.Ordered()
	if err != nil {
		return fmt.Errorf("pg: list migrations: %w", err)
	}
	for _, name := range names {
		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("pg: read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("pg: apply %s: %w", name, err)
		}
	}
	return nil
}

type conn struct {
	pool *pgxpool.Pool
}

func (c *conn) Name() string { return "pg" }

func (c *conn) Collection(name string) store.Collection {
	return &collection{pool: c.pool, name: name}
}

func (c *conn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *conn) Close(context.Context) error {
	c.pool.Close()
	return nil
}

type collection struct {
	pool *pgxpool.Pool
	name string
}

func (c *collection) Find(ctx context.Context) ([]store.Document, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT id, body FROM documents WHERE collection = $1 ORDER BY created_at, id`, c.name)
	if err != nil {
		return nil, fmt.Errorf("pg: find %s: %w", c.name, err)
	}
	return collect(rows)
}

func (c *collection) FindByIDs(ctx context.Context, ids []string) ([]store.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := c.pool.Query(ctx,
		`SELECT id, body FROM documents WHERE collection = $1 AND id = ANY($2) ORDER BY created_at, id`,
		c.name, ids)
	if err != nil {
		return nil, fmt.Errorf("pg: find %s by ids: %w", c.name, err)
	}
	return collect(rows)
}

func (c *collection) FindOne(ctx context.Context, field string, value any) (store.Document, error) {
	var (
		id   string
		body []byte
	)
	err := c.pool.QueryRow(ctx,
		`SELECT id, body FROM documents WHERE collection = $1 AND body->>$2 = $3 ORDER BY created_at LIMIT 1`,
		c.name, field, store.IDString(value)).Scan(&id, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: find one %s: %w", c.name, err)
	}
	return decode(id, body)
}

func (c *collection) Insert(ctx context.Context, doc store.Document) (store.Document, error) {
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
	}
	body := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != store.IDField {
			body[k] = v
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("pg: encode %s: %w", c.name, err)
	}
	if _, err := c.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3)`,
		c.name, id, raw); err != nil {
		return nil, fmt.Errorf("pg: insert %s: %w", c.name, err)
	}
	return decode(id, raw)
}

func collect(rows pgx.Rows) ([]store.Document, error) {
	defer rows.Close()
	var out []store.Document
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("pg: scan: %w", err)
		}
		d, err := decode(id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: rows: %w", err)
	}
	return out, nil
}

func decode(id string, body []byte) (store.Document, error) {
	d := store.Document{}
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("pg: decode %s: %w", id, err)
	}
	d[store.IDField] = id
	return d, nil
}
