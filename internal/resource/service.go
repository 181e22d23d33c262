package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/store"
)

const componentResources = "resources"

// ErrNotObject indica que el cuerpo de un alta no es un objeto JSON.
var ErrNotObject = errors.New("resource: body must be a JSON object")

// Service lee y crea documentos de un recurso. Cada operación adquiere el
// handle compartido del ConnectionCache; no hay reintentos.
type Service struct {
	conns store.Acquirer
}

// NewService crea el servicio sobre conns.
func NewService(conns store.Acquirer) *Service {
	return &Service{conns: conns}
}

// List devuelve la colección completa con las relaciones expandidas.
func (s *Service) List(ctx context.Context, def Definition) ([]store.Document, error) {
	return s.list(ctx, def, "List", nil)
}

// ListForTenant es List restringido a los documentos con tenant == slug.
// Con withUntagged también entran los documentos sin campo tenant (altas
// hechas por /api sin tenant, que pertenecen al tenant default).
func (s *Service) ListForTenant(ctx context.Context, def Definition, slug string, withUntagged bool) ([]store.Document, error) {
	return s.list(ctx, def, "ListForTenant", func(d store.Document) bool {
		switch t := d[FieldTenant].(type) {
		case nil:
			return withUntagged
		case string:
			return t == slug || (t == "" && withUntagged)
		default:
			return false
		}
	})
}

func (s *Service) list(ctx context.Context, def Definition, op string, keep func(store.Document) bool) ([]store.Document, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentResources),
		logger.Op(op),
		logger.Resource(def.Name),
	)

	h, err := s.conns.Acquire(ctx)
	if err != nil {
		log.Error("store unavailable", logger.Err(err))
		return nil, err
	}

	docs, err := h.Collection(def.Collection).Find(ctx)
	if err != nil {
		log.Error("find failed", logger.Collection(def.Collection), logger.Err(err))
		return nil, err
	}
	if keep != nil {
		kept := make([]store.Document, 0, len(docs))
		for _, d := range docs {
			if keep(d) {
				kept = append(kept, d)
			}
		}
		docs = kept
	}
	if docs == nil {
		docs = []store.Document{}
	}

	for _, rel := range def.Relations {
		if err := expand(ctx, h, docs, rel); err != nil {
			log.Error("relation expansion failed", logger.String("relation", rel.Field), logger.Err(err))
			return nil, err
		}
	}

	log.Debug("listed", logger.Count(len(docs)))
	return docs, nil
}

// Create inserta body tal cual y devuelve el documento con su _id.
func (s *Service) Create(ctx context.Context, def Definition, body store.Document) (store.Document, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentResources),
		logger.Op("Create"),
		logger.Resource(def.Name),
	)

	if body == nil {
		return nil, ErrNotObject
	}

	h, err := s.conns.Acquire(ctx)
	if err != nil {
		log.Error("store unavailable", logger.Err(err))
		return nil, err
	}

	doc, err := h.Collection(def.Collection).Insert(ctx, body)
	if err != nil {
		log.Error("insert failed", logger.Collection(def.Collection), logger.Err(err))
		return nil, err
	}

	log.Info("created", logger.String("id", doc.ID()))
	return doc, nil
}

// expand reemplaza rel.Field en cada documento por el/los documentos
// referenciados, con una sola consulta por relación. Una referencia simple
// que no existe queda en nil; en listas se omite.
func expand(ctx context.Context, h store.Handle, docs []store.Document, rel Relation) error {
	seen := map[string]struct{}{}
	var ids []string
	for _, d := range docs {
		for _, id := range refIDs(d[rel.Field]) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	refs, err := h.Collection(rel.Collection).FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("expand %s: %w", rel.Field, err)
	}
	byID := make(map[string]store.Document, len(refs))
	for _, r := range refs {
		byID[r.ID()] = r
	}

	for _, d := range docs {
		switch v := d[rel.Field].(type) {
		case nil:
		case []any:
			out := make([]any, 0, len(v))
			for _, item := range v {
				if ref, ok := byID[store.IDString(item)]; ok {
					out = append(out, ref)
				}
			}
			d[rel.Field] = out
		case map[string]any:
			// ya expandido
		default:
			if ref, ok := byID[store.IDString(v)]; ok {
				d[rel.Field] = ref
			} else {
				d[rel.Field] = nil
			}
		}
	}
	return nil
}

func refIDs(v any) []string {
	switch t := v.(type) {
	case nil, map[string]any:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if id := store.IDString(item); id != "" {
				out = append(out, id)
			}
		}
		return out
	default:
		if id := store.IDString(t); id != "" {
			return []string{id}
		}
		return nil
	}
}
