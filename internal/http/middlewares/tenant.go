package middlewares

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

// TenantParam es el parámetro de ruta con el slug del restaurante.
const TenantParam = "tenant"

// WithTenant resuelve el tenant del parámetro {tenant} (o el default si la
// ruta no lo tiene) y lo deja en el contexto. Un slug desconocido se delega
// a notFound.
func WithTenant(dir *tenant.Directory, notFound http.Handler) Middleware {
	if notFound == nil {
		notFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			httperrors.WriteError(w, httperrors.ErrTenantNotFound)
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, TenantParam)
			t, err := dir.Resolve(r.Context(), slug)
			if errors.Is(err, tenant.ErrNotFound) {
				notFound.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logger.From(r.Context()).Error("tenant lookup failed", logger.Tenant(slug), logger.Err(err))
				httperrors.WriteError(w, httperrors.ErrStoreFailure.WithDetail(err.Error()))
				return
			}

			ctx := tenant.WithTenant(r.Context(), t)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.Tenant(t.Slug)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
