// Package tenant resuelve el restaurante (tenant) de las páginas con prefijo
// /{tenant}/ contra la colección tenants, con cache TTL en memoria.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/validation"
)

const (
	// Collection guarda un documento por tenant, con campo slug.
	Collection = "tenants"
	DefaultTTL = time.Minute

	lookupTimeout = 5 * time.Second
)

// ErrNotFound indica un slug sin documento en tenants.
var ErrNotFound = errors.New("tenant: not found")

// Tenant es un restaurante.
type Tenant struct {
	ID      string
	Slug    string
	Name    string
	Default bool
}

// Config configura el Directory.
type Config struct {
	DefaultSlug string
	TTL         time.Duration
}

// Directory resuelve slugs. Solo se cachean aciertos.
type Directory struct {
	conns       store.Acquirer
	cache       *gocache.Cache
	sf          singleflight.Group
	defaultSlug string
	ttl         time.Duration
}

// NewDirectory crea el directorio sobre conns.
func NewDirectory(conns store.Acquirer, cfg Config) *Directory {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{
		conns:       conns,
		cache:       gocache.New(ttl, 2*ttl),
		defaultSlug: normalize(cfg.DefaultSlug),
		ttl:         ttl,
	}
}

// Default retorna el tenant implícito de las rutas sin prefijo.
func (d *Directory) Default() *Tenant {
	return &Tenant{Slug: d.defaultSlug, Name: d.defaultSlug, Default: true}
}

// Resolve busca slug. Slug vacío (o igual al default) es el tenant default.
func (d *Directory) Resolve(ctx context.Context, slug string) (*Tenant, error) {
	slug = normalize(slug)
	if slug == "" || slug == d.defaultSlug {
		return d.Default(), nil
	}
	if !validation.ValidTenantSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if v, ok := d.cache.Get(slug); ok {
		return v.(*Tenant), nil
	}

	// la búsqueda compartida no depende del request que la disparó
	ch := d.sf.DoChan(slug, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		return d.lookup(lctx, slug)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Tenant), nil
	}
}

func (d *Directory) lookup(ctx context.Context, slug string) (*Tenant, error) {
	h, err := d.conns.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := h.Collection(Collection).FindOne(ctx, "slug", slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: lookup %q: %w", slug, err)
	}
	t := &Tenant{ID: doc.ID(), Slug: slug, Name: stringField(doc, "name", slug)}
	d.cache.Set(slug, t, d.ttl)
	logger.From(ctx).Debug("tenant resolved", logger.Tenant(slug), logger.Component("tenant"))
	return t, nil
}

// Invalidate descarta slug del cache.
func (d *Directory) Invalidate(slug string) { d.cache.Delete(normalize(slug)) }

func normalize(slug string) string { return strings.ToLower(strings.TrimSpace(slug)) }

func stringField(doc store.Document, key, fallback string) string {
	if s, ok := doc[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// ─── Context ───

type ctxKey struct{}

// WithTenant guarda t en ctx.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext retorna el tenant del request o nil.
func FromContext(ctx context.Context) *Tenant {
	t, _ := ctx.Value(ctxKey{}).(*Tenant)
	return t
}
