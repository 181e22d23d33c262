package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/session"
)

// WithSession decodifica la sesión (cookie o Bearer) y la deja en el contexto.
// Un token inválido se trata como ausencia de sesión; no corta el request.
func WithSession(m *session.Manager) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.FromRequest(r)
			switch {
			case err == nil:
				r = r.WithContext(session.WithSession(r.Context(), s))
			case !errors.Is(err, session.ErrNoSession):
				logger.From(r.Context()).Debug("session ignored", logger.Component("session"), logger.Err(err))
			}
			next.ServeHTTP(w, r)
		})
	}
}
