package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// WithCORS habilita CORS con credenciales para los orígenes permitidos
// ("*" = cualquiera). Lista vacía: sin CORS.
func WithCORS(allowed []string) Middleware {
	list := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if a = strings.TrimRight(strings.TrimSpace(a), "/"); a != "" {
			list = append(list, a)
		}
	}
	if len(list) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   list,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", HeaderRequestID},
		ExposedHeaders:   []string{HeaderRequestID, "X-RateLimit-Remaining", "X-RateLimit-Limit", "Retry-After", "Location"},
		AllowCredentials: true,
		MaxAge:           600,
	})
}
