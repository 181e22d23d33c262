package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/rate"
	"github.com/dropDatabas3/restopos/internal/session"
	"github.com/dropDatabas3/restopos/internal/store"
	"github.com/dropDatabas3/restopos/internal/store/adapters/memory"
	"github.com/dropDatabas3/restopos/internal/tenant"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler, mk("a"), mk("b"), mk("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tables", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWithCORS(t *testing.T) {
	h := WithCORS([]string{"http://pos.test/"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/tables", nil)
	req.Header.Set("Origin", "http://pos.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	// el preflight lo responde cors con 200 sin llegar al handler
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "http://pos.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/tables", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithRateLimit(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{
		Limiter:   rate.NewMemoryLimiter(2, time.Hour),
		Whitelist: []string{"/healthz"},
	})(okHandler)

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("/api/tables").Code)
	assert.Equal(t, http.StatusOK, do("/api/tables").Code)
	rec := do("/api/tables")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, do("/healthz").Code)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestWithRateLimit_FailOpen(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}})(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWithSession(t *testing.T) {
	m, err := session.NewManager(session.Config{Secret: "test-secret-0123456789abcdef0123"})
	require.NoError(t, err)
	tok, _, err := m.Issue(session.Session{UserID: "9", Role: session.RoleAdmin})
	require.NoError(t, err)

	var got *session.Session
	h := WithSession(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	assert.Equal(t, session.RoleAdmin, got.Role)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, got)
}

func TestWithTenant(t *testing.T) {
	db := memory.New()
	_, err := db.Collection(tenant.Collection).Insert(context.Background(), store.Document{"slug": "trattoria"})
	require.NoError(t, err)
	dir := tenant.NewDirectory(store.NewConnectionCacheWith(func(context.Context) (store.Handle, error) { return db, nil }),
		tenant.Config{DefaultSlug: "main"})

	var got *tenant.Tenant
	r := chi.NewRouter()
	r.With(WithTenant(dir, nil)).Get("/{tenant}/menu", func(w http.ResponseWriter, r *http.Request) {
		got = tenant.FromContext(r.Context())
	})
	r.With(WithTenant(dir, nil)).Get("/menu", func(w http.ResponseWriter, r *http.Request) {
		got = tenant.FromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trattoria/menu", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trattoria", got.Slug)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.True(t, got.Default)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere/menu", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
