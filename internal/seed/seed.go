// Package seed carga datos de demo (tenant, sucursal, menú y mesas) en el
// store de documentos.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/store"
)

// ErrAlreadySeeded indica que el tenant ya existe.
var ErrAlreadySeeded = errors.New("seed: tenant already exists")

// Report cuenta los documentos insertados por colección.
type Report map[string]int

var demoMenu = []store.Document{
	{"name": "Margherita", "category": "pizzas", "price": 11.5},
	{"name": "Lasagna", "category": "pastas", "price": 14.0},
	{"name": "Tiramisú", "category": "postres", "price": 7.0},
}

// Run inserta el dataset de demo para slug. Si el tenant existe no toca nada.
func Run(ctx context.Context, h store.Handle, slug, name string) (Report, error) {
	log := logger.From(ctx).With(logger.Component("seed"), logger.Tenant(slug))

	_, err := h.Collection(resource.CollTenants).FindOne(ctx, "slug", slug)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %q", ErrAlreadySeeded, slug)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("seed: lookup tenant: %w", err)
	}

	rep := Report{}
	insert := func(coll string, doc store.Document) (store.Document, error) {
		out, err := h.Collection(coll).Insert(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("seed: insert %s: %w", coll, err)
		}
		rep[coll]++
		return out, nil
	}

	if name == "" {
		name = slug
	}
	if _, err := insert(resource.CollTenants, store.Document{"slug": slug, "name": name}); err != nil {
		return rep, err
	}
	branch, err := insert(resource.CollBranches, store.Document{"name": "Casa central", resource.FieldTenant: slug})
	if err != nil {
		return rep, err
	}

	for _, item := range demoMenu {
		doc := store.Document{resource.FieldTenant: slug}
		for k, v := range item {
			doc[k] = v
		}
		mi, err := insert(resource.CollMenuItems, doc)
		if err != nil {
			return rep, err
		}
		if _, err := insert("branchmenuitems", store.Document{
			"branch": branch.ID(), "menuItem": mi.ID(), "available": true,
		}); err != nil {
			return rep, err
		}
	}

	for n := 1; n <= 4; n++ {
		if _, err := insert(resource.CollTables, store.Document{
			"number": n, "capacity": 4, "status": "available", "branch": branch.ID(),
		}); err != nil {
			return rep, err
		}
	}

	log.Info("seed done", logger.Any("inserted", rep))
	return rep, nil
}
