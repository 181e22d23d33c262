// Package app arma el servicio a partir de la configuración: store, CMS,
// sesiones, tenants, rate limiting, métricas y router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/restopos/internal/cms"
	"github.com/dropDatabas3/restopos/internal/config"
	httpx "github.com/dropDatabas3/restopos/internal/http"
	authctrl "github.com/dropDatabas3/restopos/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/restopos/internal/http/controllers/health"
	"github.com/dropDatabas3/restopos/internal/http/controllers/pages"
	proxyctrl "github.com/dropDatabas3/restopos/internal/http/controllers/proxy"
	"github.com/dropDatabas3/restopos/internal/http/controllers/resources"
	statsctrl "github.com/dropDatabas3/restopos/internal/http/controllers/stats"
	mw "github.com/dropDatabas3/restopos/internal/http/middlewares"
	"github.com/dropDatabas3/restopos/internal/http/router"
	authsvc "github.com/dropDatabas3/restopos/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/restopos/internal/http/services/health"
	proxysvc "github.com/dropDatabas3/restopos/internal/http/services/proxy"
	statssvc "github.com/dropDatabas3/restopos/internal/http/services/stats"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
	"github.com/dropDatabas3/restopos/internal/rate"
	"github.com/dropDatabas3/restopos/internal/resource"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

// App es el servicio cableado.
type App struct {
	Handler  http.Handler
	Conns    *store.ConnectionCache
	Sessions *session.Manager

	redis *rdb.Client
}

// New cablea el servicio. No abre la conexión al store: el primer request
// (o /readyz) la dispara a través del ConnectionCache.
func New(cfg *config.Config) (*App, error) {
	log := logger.L().With(logger.Component("app"))

	conns, err := store.NewConnectionCache(store.Config{
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		ConnectTimeout: cfg.StoreConnectTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("app: store: %w", err)
	}
	conns.OnConnect = func(attempt int64, err error) {
		httpx.ObserveStoreConnect(attempt, err)
		if err != nil {
			log.Error("store connect failed", logger.Attempt(attempt), logger.Err(err))
			return
		}
		log.Info("store connected", logger.Attempt(attempt))
	}

	metricsHandler, err := httpx.RegisterMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("app: metrics: %w", err)
	}

	var client *cms.Client
	if cfg.CMS.BaseURL != "" {
		client, err = cms.New(cms.Config{
			BaseURL:  cfg.CMS.BaseURL,
			APIToken: cfg.CMS.APIToken,
			Timeout:  cfg.CMSTimeout(),
			Observe:  httpx.ObserveUpstream,
		})
		if err != nil {
			return nil, fmt.Errorf("app: cms: %w", err)
		}
	} else {
		log.Warn("CMS_BASE_URL not set; proxy and auth routes answer 503")
	}

	sessions, err := session.NewManager(session.Config{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.SessionTTL(),
		Issuer:     cfg.Session.Issuer,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("app: session: %w", err)
	}

	clientIPs, err := mw.NewIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{Conns: conns, Sessions: sessions}
	limiter := a.buildLimiter(cfg)

	resSvc := resource.NewService(conns)
	tenants := tenant.NewDirectory(conns, tenant.Config{
		DefaultSlug: cfg.Tenancy.DefaultTenant,
		TTL:         cfg.TenantCacheTTL(),
	})
	pagesCtrl, err := pages.NewPagesController(pages.StoreMenu(resSvc, tenants.Default()))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a.Handler = router.New(router.Deps{
		Controllers: router.Controllers{
			Resources: resources.NewResourceController(resSvc),
			Proxy:     proxyctrl.NewProxyController(proxysvc.NewProxyService(client)),
			Auth:      authctrl.NewAuthController(authsvc.NewAuthService(authsvc.Deps{CMS: client, Sessions: sessions}), sessions),
			Stats:     statsctrl.NewStatsController(statssvc.NewStatsService()),
			Health: healthctrl.NewHealthController(healthsvc.NewHealthService(healthsvc.Deps{
				Store:         conns,
				Version:       cfg.App.Version,
				CMSConfigured: client != nil,
			})),
			Pages: pagesCtrl,
		},
		Sessions:    sessions,
		Tenants:     tenants,
		Limiter:     limiter,
		Metrics:     metricsHandler,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		ClientIPs:   clientIPs,
		ProtectAPI:  cfg.Auth.ProtectAPI,
	})

	log.Info("app wired",
		logger.Adapter(adapterName(cfg.Store.URI)),
		logger.Bool("cms", client != nil),
		logger.Bool("rate_limit", limiter != nil),
		logger.Bool("protect_api", cfg.Auth.ProtectAPI),
	)
	return a, nil
}

// buildLimiter elige Redis si hay REDIS_ADDR, si no el limitador en memoria.
func (a *App) buildLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if cfg.Rate.Redis.Addr != "" {
		a.redis = rdb.NewClient(&rdb.Options{Addr: cfg.Rate.Redis.Addr, DB: cfg.Rate.Redis.DB})
		return rate.NewRedisLimiter(a.redis, cfg.Rate.Redis.Prefix, cfg.Rate.Limit, cfg.RateWindow())
	}
	return rate.NewMemoryLimiter(cfg.Rate.Limit, cfg.RateWindow())
}

// Close libera la conexión al store y el cliente Redis.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Conns.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

func adapterName(uri string) string {
	if a, err := store.AdapterFor(uri); err == nil {
		return a.Name()
	}
	return "unknown"
}
