// Package proxy reenvía las colecciones que viven en el CMS (categorías,
// recetas, usuarios) y aplana su respuesta.
package proxy

import (
	"context"
	"net/url"

	"github.com/dropDatabas3/restopos/internal/cms"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
)

// Collections son las colecciones servidas por el CMS bajo /api/{name}.
var Collections = []string{"categories", "recipes", "users"}

// ProxyService define list/create contra el CMS.
type ProxyService interface {
	List(ctx context.Context, name string, who cms.Caller, query url.Values) (any, error)
	Create(ctx context.Context, name string, who cms.Caller, body map[string]any) (any, error)
}

type proxyService struct {
	client *cms.Client
}

// NewProxyService crea el servicio. client nil responde cms.ErrNotConfigured.
func NewProxyService(client *cms.Client) ProxyService {
	return &proxyService{client: client}
}

func (s *proxyService) List(ctx context.Context, name string, who cms.Caller, query url.Values) (any, error) {
	if s.client == nil {
		return nil, cms.ErrNotConfigured
	}
	logger.From(ctx).Debug("proxy list", logger.Layer("service"), logger.Resource(name))
	return s.client.List(ctx, name, who, query)
}

func (s *proxyService) Create(ctx context.Context, name string, who cms.Caller, body map[string]any) (any, error) {
	if s.client == nil {
		return nil, cms.ErrNotConfigured
	}
	logger.From(ctx).Debug("proxy create", logger.Layer("service"), logger.Resource(name))
	return s.client.Create(ctx, name, who, body)
}
