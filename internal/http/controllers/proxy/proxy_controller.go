// Package proxy contiene el controller de las colecciones servidas por el CMS.
package proxy

import (
	"net/http"

	"github.com/dropDatabas3/restopos/internal/cms"
	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/http/helpers"
	svc "github.com/dropDatabas3/restopos/internal/http/services/proxy"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/session"
)

// ProxyController reenvía GET/POST de una colección al CMS.
type ProxyController struct {
	service svc.ProxyService
}

// NewProxyController crea el controller.
func NewProxyController(service svc.ProxyService) *ProxyController {
	return &ProxyController{service: service}
}

// caller arma la identidad con la que se reenvía el request.
func caller(r *http.Request) cms.Caller {
	if s := session.FromContext(r.Context()); s != nil {
		return cms.Caller{Token: s.CMSToken, Authenticated: true}
	}
	return cms.Anonymous
}

// List maneja GET /api/{name}; el query string se reenvía tal cual.
func (c *ProxyController) List(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProxyController.List"), logger.Resource(name))

		out, err := c.service.List(ctx, name, caller(r), r.URL.Query())
		if err != nil {
			log.Warn("proxy list failed", logger.Err(err))
			httperrors.WriteError(w, helpers.UpstreamError(err))
			return
		}
		helpers.WriteJSON(w, http.StatusOK, out)
	}
}

// Create maneja POST /api/{name}.
func (c *ProxyController) Create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProxyController.Create"), logger.Resource(name))

		body, appErr := helpers.ReadObject(w, r)
		if appErr != nil {
			httperrors.WriteError(w, appErr)
			return
		}

		out, err := c.service.Create(ctx, name, caller(r), body)
		if err != nil {
			log.Warn("proxy create failed", logger.Err(err))
			httperrors.WriteError(w, helpers.UpstreamError(err))
			return
		}
		helpers.WriteJSON(w, http.StatusCreated, out)
	}
}
