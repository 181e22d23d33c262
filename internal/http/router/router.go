// Package router arma el árbol de rutas chi del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dropDatabas3/restopos/internal/guard"
	httpx "github.com/dropDatabas3/restopos/internal/http"
	"github.com/dropDatabas3/restopos/internal/http/controllers/auth"
	"github.com/dropDatabas3/restopos/internal/http/controllers/health"
	"github.com/dropDatabas3/restopos/internal/http/controllers/pages"
	"github.com/dropDatabas3/restopos/internal/http/controllers/proxy"
	"github.com/dropDatabas3/restopos/internal/http/controllers/resources"
	"github.com/dropDatabas3/restopos/internal/http/controllers/stats"
	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	mw "github.com/dropDatabas3/restopos/internal/http/middlewares"
	proxysvc "github.com/dropDatabas3/restopos/internal/http/services/proxy"
	"github.com/dropDatabas3/restopos/internal/rate"
	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

// Controllers agrupa los controllers montados por el router.
type Controllers struct {
	Resources *resources.ResourceController
	Proxy     *proxy.ProxyController
	Auth      *auth.AuthController
	Stats     *stats.StatsController
	Health    *health.HealthController
	Pages     *pages.PagesController
}

// Deps contiene todo lo que necesita el router.
type Deps struct {
	Controllers Controllers
	Sessions    *session.Manager
	Tenants     *tenant.Directory
	// Limiter nil desactiva el rate limiting de /api.
	Limiter rate.Limiter
	// Metrics es el handler de /metrics (nil = no se expone).
	Metrics     http.Handler
	CORSOrigins []string
	// ClientIPs resuelve la IP para logs y rate limiting (nil = RemoteAddr).
	ClientIPs *mw.IPResolver
	// ProtectAPI exige sesión de staff en los recursos y el proxy.
	ProtectAPI bool
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	c := d.Controllers
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		chimw.CleanPath,
		httpx.WithMetrics,
		mw.WithSession(d.Sessions),
		mw.WithLogging(d.ClientIPs),
		mw.WithCORS(d.CORSOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Operación ───
	r.Get("/healthz", c.Health.Healthz)
	r.Get("/readyz", c.Health.Readyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	// ─── API ───
	r.Route("/api", func(api chi.Router) {
		api.Use(
			mw.WithSecurityHeaders(true),
			mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.Limiter, IPs: d.ClientIPs}),
		)
		registerAPI(api, c, d.ProtectAPI)
	})

	// ─── Páginas ───
	r.Group(func(pg chi.Router) {
		pg.Use(mw.WithSecurityHeaders(false))
		registerPages(pg, c.Pages, d.Tenants)
	})

	return r
}

func registerAPI(api chi.Router, c Controllers, protect bool) {
	staff := passthrough
	admins := passthrough
	if protect {
		staff = guard.Require(session.StaffRoles...)
		admins = guard.Require(session.RoleAdmin, session.RoleSaaSAdmin)
	}

	api.Route("/auth", func(a chi.Router) {
		a.Post("/login", c.Auth.Login)
		a.Post("/signup", c.Auth.Signup)
		a.Post("/logout", c.Auth.Logout)
		a.Get("/me", c.Auth.Me)
	})

	api.With(staff).Get("/stats", c.Stats.Get)

	for _, def := range resource.Catalog() {
		path := "/" + def.Name
		api.With(staff).Get(path, c.Resources.List(def))
		api.With(staff).Post(path, c.Resources.Create(def))
	}

	for _, name := range proxysvc.Collections {
		gate := staff
		if name == "users" {
			gate = admins
		}
		path := "/" + name
		api.With(gate).Get(path, c.Proxy.List(name))
		api.With(gate).Post(path, c.Proxy.Create(name))
	}
}

func registerPages(pg chi.Router, p *pages.PagesController, tenants *tenant.Directory) {
	withTenant := mw.WithTenant(tenants, http.HandlerFunc(p.TenantNotFound))

	pg.Get("/login", p.Login)
	pg.Get("/unauthorized", p.Unauthorized)
	pg.With(withTenant).Get("/menu", p.Menu)
	pg.With(withTenant).Get("/{tenant}/menu", p.Menu)
	pg.With(withTenant).Get("/{tenant}/signup", p.Signup)

	for _, page := range pages.Dashboard {
		pg.Method(http.MethodGet, page.Path, guard.Page(page.Allowed, p.View(page), guard.DefaultOptions))
	}
}

func passthrough(next http.Handler) http.Handler { return next }
