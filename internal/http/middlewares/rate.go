package middlewares

import (
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/rate"
	"github.com/dropDatabas3/restopos/internal/session"
)

// RateKeyFunc arma la clave de rate limiting de un request.
type RateKeyFunc func(r *http.Request) string

// SessionOrIPKey usa el usuario de la sesión si hay, si no la IP del cliente.
func SessionOrIPKey(ips *IPResolver) RateKeyFunc {
	return func(r *http.Request) string {
		if s := session.FromContext(r.Context()); s != nil && s.UserID != "" {
			return "u:" + s.UserID
		}
		return "ip:" + ips.ClientIP(r)
	}
}

// RateLimitConfig configura WithRateLimit.
type RateLimitConfig struct {
	Limiter rate.Limiter
	// KeyFunc default: SessionOrIPKey(IPs).
	KeyFunc RateKeyFunc
	IPs     *IPResolver
	// Whitelist son paths exactos excluidos (ej: /healthz).
	Whitelist []string
}

// WithRateLimit responde 429 con Retry-After cuando se agota la ventana.
// Si el limiter falla, el request pasa.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = SessionOrIPKey(cfg.IPs)
	}
	skip := make(map[string]struct{}, len(cfg.Whitelist))
	for _, p := range cfg.Whitelist {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int(res.RetryAfter.Seconds())
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				httperrors.WriteError(w, httperrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
