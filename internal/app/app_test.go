package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/restopos/internal/config"
	_ "github.com/dropDatabas3/restopos/internal/store/adapters/memory"
)

func TestNew_MemoryStore(t *testing.T) {
	t.Setenv("MONGODB_URI", "memory://")
	t.Setenv("RATE_ENABLED", "true")
	t.Setenv("RATE_LIMIT", "100")
	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tables", strings.NewReader(`{"number":5,"capacity":4}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), a.Conns.Attempts())

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"capacity":4`)
	assert.Equal(t, int64(1), a.Conns.Attempts())
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_connect_attempts_total")
}

func TestNew_UnknownScheme(t *testing.T) {
	t.Setenv("MONGODB_URI", "cassandra://localhost")
	cfg, err := config.Load("")
	require.NoError(t, err)

	_, err = New(cfg)
	assert.Error(t, err)
}
