// Package resources contiene el controller genérico de los recursos
// respaldados por el store de documentos.
package resources

import (
	"context"
	"net/http"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/http/helpers"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/store"
)

// ResourceService es lo que el controller necesita de *resource.Service.
type ResourceService interface {
	List(ctx context.Context, def resource.Definition) ([]store.Document, error)
	Create(ctx context.Context, def resource.Definition, body store.Document) (store.Document, error)
}

// ResourceController sirve GET (listado) y POST (alta) de un recurso.
type ResourceController struct {
	service ResourceService
}

// NewResourceController crea el controller.
func NewResourceController(service ResourceService) *ResourceController {
	return &ResourceController{service: service}
}

// List maneja GET /api/{resource}.
func (c *ResourceController) List(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResourceController.List"), logger.Resource(def.Name))

		docs, err := c.service.List(ctx, def)
		if err != nil {
			log.Error("list failed", logger.Collection(def.Collection), logger.Err(err))
			httperrors.WriteError(w, helpers.StoreError(err))
			return
		}
		helpers.WriteJSON(w, http.StatusOK, docs)
	}
}

// Create maneja POST /api/{resource}.
func (c *ResourceController) Create(def resource.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResourceController.Create"), logger.Resource(def.Name))

		body, appErr := helpers.ReadObject(w, r)
		if appErr != nil {
			httperrors.WriteError(w, appErr)
			return
		}

		doc, err := c.service.Create(ctx, def, body)
		if err != nil {
			log.Error("create failed", logger.Collection(def.Collection), logger.Err(err))
			httperrors.WriteError(w, helpers.StoreError(err))
			return
		}
		log.Info("document created", logger.String("id", doc.ID()))
		helpers.WriteJSON(w, http.StatusCreated, doc)
	}
}
